package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/daybook/backend/internal/db"
	"github.com/daybook/backend/internal/model"
	"github.com/daybook/backend/internal/template"
	"github.com/daybook/backend/internal/timeutil"
)

type eodStore interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	ListTodosCreatedBetween(ctx context.Context, userID int64, start, end time.Time) ([]model.Todo, error)
	MigrateTodosToEntry(ctx context.Context, userID int64, localDate, title, body string, todos []model.Todo) (string, error)
}

// EODService sweeps each user's todos into a rollup diary entry when the
// user's local clock crosses midnight.
type EODService struct {
	store eodStore
	now   func() time.Time
	mu    sync.Mutex
}

func NewEODService(store eodStore) *EODService {
	return &EODService{store: store, now: time.Now}
}

// RunMigrationCycle is the per-minute sweep entrypoint. Cycles never
// overlap: if the previous run is still going this one is skipped.
// Users are processed serially and a failure for one user never stops
// the sweep for the rest.
func (s *EODService) RunMigrationCycle(ctx context.Context) {
	if !s.mu.TryLock() {
		log.Printf("[EOD] previous cycle still running, skipping")
		return
	}
	defer s.mu.Unlock()

	now := s.now()
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		log.Printf("[EOD] listing users failed: %v", err)
		return
	}

	for i := range users {
		if err := s.processUser(ctx, &users[i], now); err != nil {
			log.Printf("[EOD] user %d migration failed: %v", users[i].ID, err)
		}
	}
}

func (s *EODService) processUser(ctx context.Context, user *model.User, now time.Time) error {
	tz := user.Profile.Settings.Timezone
	if tz == "" {
		tz = "UTC"
	}

	if !timeutil.IsLocalMidnight(now, tz) {
		return nil
	}

	localDate := timeutil.LocalDate(now, tz)
	if user.Profile.DiaryStats.LastEntryDate != nil && *user.Profile.DiaryStats.LastEntryDate == localDate {
		return nil
	}

	start, end, err := timeutil.DayWindow(localDate, tz)
	if err != nil {
		return err
	}

	todos, err := s.store.ListTodosCreatedBetween(ctx, user.ID, start, end)
	if err != nil {
		return err
	}

	data := template.RollupData{Date: localDate, Count: len(todos), Username: user.Username}
	title := template.RenderRollup(template.DefaultRollupTitle, data)
	body := template.RenderRollup(template.DefaultRollupBody, data)

	if _, err := s.store.MigrateTodosToEntry(ctx, user.ID, localDate, title, body, todos); err != nil {
		if errors.Is(err, db.ErrAlreadyMigrated) {
			return nil
		}
		return err
	}

	log.Printf("[EOD] user %d: moved %d todos into %s", user.ID, len(todos), localDate)
	return nil
}
