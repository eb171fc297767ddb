package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/daybook/backend/internal/db"
	"github.com/daybook/backend/internal/model"
)

type migrationCall struct {
	userID    int64
	localDate string
	title     string
	body      string
	todos     []model.Todo
}

type todoQuery struct {
	userID int64
	start  time.Time
	end    time.Time
}

type fakeEODStore struct {
	mu sync.Mutex

	users    []model.User
	todos    map[int64][]model.Todo
	listErr  map[int64]error
	migErr   map[int64]error
	gate     chan struct{}
	listed   int
	queries  []todoQuery
	migrated []migrationCall
}

func (f *fakeEODStore) ListUsers(ctx context.Context) ([]model.User, error) {
	f.mu.Lock()
	f.listed++
	f.mu.Unlock()
	if f.gate != nil {
		<-f.gate
	}
	return f.users, nil
}

func (f *fakeEODStore) ListTodosCreatedBetween(ctx context.Context, userID int64, start, end time.Time) ([]model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, todoQuery{userID: userID, start: start, end: end})
	if err := f.listErr[userID]; err != nil {
		return nil, err
	}
	return f.todos[userID], nil
}

func (f *fakeEODStore) MigrateTodosToEntry(ctx context.Context, userID int64, localDate, title, body string, todos []model.Todo) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.migErr[userID]; err != nil {
		return "", err
	}
	f.migrated = append(f.migrated, migrationCall{userID: userID, localDate: localDate, title: title, body: body, todos: todos})
	return "entry-1", nil
}

func eodUser(id int64, tz string, lastEntryDate *string) model.User {
	user := model.User{ID: id, Username: "daybook"}
	user.Profile.Settings.Timezone = tz
	user.Profile.DiaryStats.LastEntryDate = lastEntryDate
	return user
}

func newTestEODService(store eodStore, now time.Time) *EODService {
	svc := NewEODService(store)
	svc.now = func() time.Time { return now }
	return svc
}

func TestMigrationCycleAtLocalMidnight(t *testing.T) {
	// 2026-03-14 18:30 UTC is 2026-03-15 00:00 in Asia/Kolkata.
	now := time.Date(2026, 3, 14, 18, 30, 12, 0, time.UTC)
	store := &fakeEODStore{
		users: []model.User{eodUser(1, "Asia/Kolkata", nil)},
		todos: map[int64][]model.Todo{1: {
			{ID: "t1", Task: "write tests"},
			{ID: "t2", Task: "review draft"},
			{ID: "t3", Task: "call home"},
		}},
	}

	newTestEODService(store, now).RunMigrationCycle(context.Background())

	require.Len(t, store.migrated, 1)
	call := store.migrated[0]
	require.Equal(t, int64(1), call.userID)
	require.Equal(t, "2026-03-15", call.localDate)
	require.Equal(t, "End of day: 2026-03-15", call.title)
	require.Equal(t, "Todos collected for 2026-03-15 (3 items).", call.body)
	require.Len(t, call.todos, 3)

	// The todo window is the user's local calendar day expressed in UTC.
	require.Len(t, store.queries, 1)
	require.Equal(t, time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC), store.queries[0].start)
	require.Equal(t, time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC), store.queries[0].end)
}

func TestMigrationCycleSkipsOffMidnight(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	store := &fakeEODStore{users: []model.User{eodUser(1, "UTC", nil)}}

	newTestEODService(store, now).RunMigrationCycle(context.Background())

	require.Empty(t, store.queries)
	require.Empty(t, store.migrated)
}

func TestMigrationCycleSkipsAlreadyMigratedDay(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 30, 0, time.UTC)
	done := "2026-03-15"
	store := &fakeEODStore{users: []model.User{eodUser(1, "UTC", &done)}}

	newTestEODService(store, now).RunMigrationCycle(context.Background())

	require.Empty(t, store.migrated)
}

func TestMigrationCycleEmptyDayStillAdvances(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	store := &fakeEODStore{users: []model.User{eodUser(1, "UTC", nil)}}

	newTestEODService(store, now).RunMigrationCycle(context.Background())

	// A day with no todos still records the date so the guard holds.
	require.Len(t, store.migrated, 1)
	require.Empty(t, store.migrated[0].todos)
}

func TestMigrationCycleDefaultsToUTC(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	store := &fakeEODStore{users: []model.User{eodUser(1, "", nil)}}

	newTestEODService(store, now).RunMigrationCycle(context.Background())

	require.Len(t, store.migrated, 1)
	require.Equal(t, "2026-03-15", store.migrated[0].localDate)
}

func TestMigrationCycleContinuesAfterUserFailure(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	store := &fakeEODStore{
		users: []model.User{
			eodUser(1, "UTC", nil),
			eodUser(2, "UTC", nil),
			eodUser(3, "UTC", nil),
		},
		todos:   map[int64][]model.Todo{},
		listErr: map[int64]error{1: errors.New("boom")},
		migErr:  map[int64]error{2: db.ErrAlreadyMigrated},
	}

	newTestEODService(store, now).RunMigrationCycle(context.Background())

	// User 1 fails, user 2 raced another writer; user 3 still goes through.
	require.Len(t, store.migrated, 1)
	require.Equal(t, int64(3), store.migrated[0].userID)
}

func TestMigrationCyclesDoNotOverlap(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	store := &fakeEODStore{
		users: []model.User{eodUser(1, "UTC", nil)},
		gate:  make(chan struct{}),
	}
	svc := newTestEODService(store, now)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		svc.RunMigrationCycle(context.Background())
	}()

	// Wait until the first cycle is inside ListUsers, then start a second.
	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.listed == 1
	}, time.Second, time.Millisecond)

	svc.RunMigrationCycle(context.Background())

	store.mu.Lock()
	require.Equal(t, 1, store.listed, "overlapping cycle must be skipped")
	store.mu.Unlock()

	close(store.gate)
	wg.Wait()
	require.Len(t, store.migrated, 1)
}
