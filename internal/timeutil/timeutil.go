// Package timeutil implements the calendar math used by the end-of-day
// migrator: local-date strings, the minute-resolution midnight check and
// the local day window of a calendar date.
package timeutil

import "time"

const dateLayout = "2006-01-02"

// Location resolves an IANA timezone name. Empty or unknown names fall
// back to UTC.
func Location(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LocalDate returns t's calendar date (YYYY-MM-DD) in the given timezone.
func LocalDate(t time.Time, tz string) string {
	return t.In(Location(tz)).Format(dateLayout)
}

// IsLocalMidnight reports whether t is 00:00 wall-clock time in the given
// timezone, at minute resolution.
func IsLocalMidnight(t time.Time, tz string) bool {
	local := t.In(Location(tz))
	return local.Hour() == 0 && local.Minute() == 0
}

// DayWindow returns the UTC instants bounding the local calendar date in
// the given timezone: [localDate 00:00, next day 00:00). The end bound is
// computed with AddDate so DST transitions keep the window aligned to
// wall-clock midnight.
func DayWindow(localDate, tz string) (time.Time, time.Time, error) {
	loc := Location(tz)
	start, err := time.ParseInLocation(dateLayout, localDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end := start.AddDate(0, 0, 1)
	return start.UTC(), end.UTC(), nil
}
