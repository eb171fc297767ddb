package timeutil

import (
	"testing"
	"time"
)

func TestLocalDate(t *testing.T) {
	// 18:30 UTC is already the next day in Kolkata (UTC+5:30).
	instant := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

	if got := LocalDate(instant, "Asia/Kolkata"); got != "2026-03-15" {
		t.Fatalf("Kolkata date = %s", got)
	}
	if got := LocalDate(instant, "UTC"); got != "2026-03-14" {
		t.Fatalf("UTC date = %s", got)
	}
	if got := LocalDate(instant, "America/New_York"); got != "2026-03-14" {
		t.Fatalf("New York date = %s", got)
	}
}

func TestIsLocalMidnight(t *testing.T) {
	midnightKolkata := time.Date(2026, 3, 14, 18, 30, 45, 0, time.UTC)
	if !IsLocalMidnight(midnightKolkata, "Asia/Kolkata") {
		t.Fatal("expected Kolkata midnight")
	}
	if IsLocalMidnight(midnightKolkata, "UTC") {
		t.Fatal("18:30 UTC is not UTC midnight")
	}
	if !IsLocalMidnight(time.Date(2026, 3, 14, 0, 0, 59, 0, time.UTC), "UTC") {
		t.Fatal("seconds are below the check's resolution")
	}
	if IsLocalMidnight(time.Date(2026, 3, 14, 0, 1, 0, 0, time.UTC), "UTC") {
		t.Fatal("00:01 is past midnight")
	}
}

func TestIsLocalMidnightUnknownZoneFallsBackToUTC(t *testing.T) {
	utcMidnight := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if !IsLocalMidnight(utcMidnight, "Not/AZone") {
		t.Fatal("unknown zones should behave like UTC")
	}
}

func TestDayWindow(t *testing.T) {
	start, end, err := DayWindow("2026-03-15", "Asia/Kolkata")
	if err != nil {
		t.Fatal(err)
	}
	if !start.Equal(time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)) {
		t.Fatalf("start = %v", start)
	}
	if !end.Equal(time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)) {
		t.Fatalf("end = %v", end)
	}
}

func TestDayWindowSpringForward(t *testing.T) {
	// US DST starts 2026-03-08; the local day is only 23 hours long but
	// the window still ends at the next wall-clock midnight.
	start, end, err := DayWindow("2026-03-08", "America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	if got := end.Sub(start); got != 23*time.Hour {
		t.Fatalf("window length = %v", got)
	}
}

func TestDayWindowBadDate(t *testing.T) {
	if _, _, err := DayWindow("15-03-2026", "UTC"); err == nil {
		t.Fatal("expected parse error")
	}
}
