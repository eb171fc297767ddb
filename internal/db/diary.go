package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/daybook/backend/internal/model"
	"github.com/jackc/pgx/v5"
)

const entryColumns = `id, title, entry, mood, images, videos, links, user_id, entry_date, rollup, created_at, updated_at`

const dateLayout = "2006-01-02"

func scanEntry(row rowScanner) (*model.DiaryEntry, error) {
	var entry model.DiaryEntry
	var images []byte
	var entryDate time.Time
	err := row.Scan(
		&entry.ID,
		&entry.Title,
		&entry.Entry,
		&entry.Mood,
		&images,
		&entry.Videos,
		&entry.Links,
		&entry.UserID,
		&entryDate,
		&entry.Rollup,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &entry.Images); err != nil {
		return nil, err
	}
	entry.Date = entryDate.Format(dateLayout)
	return &entry, nil
}

func scanEntrySummary(row rowScanner) (*model.EntrySummary, error) {
	var summary model.EntrySummary
	var entryDate time.Time
	err := row.Scan(
		&summary.ID,
		&summary.Title,
		&summary.Content,
		&entryDate,
		&summary.Mood,
		&summary.CreatedAt,
		&summary.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	summary.Date = entryDate.Format(dateLayout)
	return &summary, nil
}

func (db *Postgres) collectEntrySummaries(ctx context.Context, query string, args ...any) ([]model.EntrySummary, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []model.EntrySummary{}
	for rows.Next() {
		summary, err := scanEntrySummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, rows.Err()
}

// CreateEntry inserts the entry and bumps the owner's total_entries in one
// transaction.
func (db *Postgres) CreateEntry(ctx context.Context, entry *model.DiaryEntry) error {
	images, err := json.Marshal(entry.Images)
	if err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO diary_entries (id, title, entry, mood, images, videos, links, user_id, entry_date, rollup, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, NOW(), NOW())
			RETURNING created_at, updated_at`
		err := tx.QueryRow(ctx, query,
			entry.ID, entry.Title, entry.Entry, entry.Mood, images, entry.Videos, entry.Links, entry.UserID, entry.Date,
		).Scan(&entry.CreatedAt, &entry.UpdatedAt)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE users SET total_entries = total_entries + 1, updated_at = NOW() WHERE id = $1`,
			entry.UserID)
		return err
	})
}

func (db *Postgres) GetEntryByID(ctx context.Context, entryID string, userID int64) (*model.DiaryEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM diary_entries WHERE id = $1 AND user_id = $2`
	entry, err := scanEntry(db.Pool.QueryRow(ctx, query, entryID, userID))
	if err != nil {
		return nil, err
	}
	todos, err := db.ListEntryTodos(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Todos = todos
	return entry, nil
}

func (db *Postgres) ListEntries(ctx context.Context, userID int64) ([]model.EntrySummary, error) {
	query := `
		SELECT id, title, entry, entry_date, mood, created_at, updated_at
		FROM diary_entries WHERE user_id = $1 ORDER BY created_at DESC`
	return db.collectEntrySummaries(ctx, query, userID)
}

func (db *Postgres) ListEntriesInRange(ctx context.Context, userID int64, start, end string) ([]model.EntrySummary, error) {
	query := `
		SELECT id, title, entry, entry_date, mood, created_at, updated_at
		FROM diary_entries
		WHERE user_id = $1 AND entry_date >= $2 AND entry_date <= $3
		ORDER BY entry_date DESC`
	return db.collectEntrySummaries(ctx, query, userID, start, end)
}

// ListEntriesByTimePart filters by a calendar component of entry_date.
// part must be one of "year", "month", "day" (validated by the caller).
func (db *Postgres) ListEntriesByTimePart(ctx context.Context, userID int64, part string, value int) ([]model.EntrySummary, error) {
	var field string
	switch part {
	case "year":
		field = "YEAR"
	case "month":
		field = "MONTH"
	case "day":
		field = "DAY"
	default:
		return nil, pgx.ErrNoRows
	}
	query := `
		SELECT id, title, entry, entry_date, mood, created_at, updated_at
		FROM diary_entries
		WHERE user_id = $1 AND EXTRACT(` + field + ` FROM entry_date) = $2
		ORDER BY entry_date DESC`
	return db.collectEntrySummaries(ctx, query, userID, value)
}

func (db *Postgres) UpdateEntry(ctx context.Context, entry *model.DiaryEntry) error {
	query := `
		UPDATE diary_entries
		SET title = $3, entry = $4, mood = $5, videos = $6, links = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`
	return db.Pool.QueryRow(ctx, query,
		entry.ID, entry.UserID, entry.Title, entry.Entry, entry.Mood, entry.Videos, entry.Links,
	).Scan(&entry.UpdatedAt)
}

// DeleteEntry removes the entry and decrements total_entries in one
// transaction. The deleted row is returned so the caller can clean up
// stored images.
func (db *Postgres) DeleteEntry(ctx context.Context, entryID string, userID int64) (*model.DiaryEntry, error) {
	var deleted *model.DiaryEntry
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		query := `DELETE FROM diary_entries WHERE id = $1 AND user_id = $2 RETURNING ` + entryColumns
		entry, err := scanEntry(tx.QueryRow(ctx, query, entryID, userID))
		if err != nil {
			return err
		}
		deleted = entry
		_, err = tx.Exec(ctx,
			`UPDATE users SET total_entries = GREATEST(total_entries - 1, 0), updated_at = NOW() WHERE id = $1`,
			userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (db *Postgres) ListEntryTodos(ctx context.Context, entryID string) ([]model.EntryTodo, error) {
	query := `
		SELECT todo_id, task, description, status, priority
		FROM entry_todos WHERE entry_id = $1 ORDER BY position`
	rows, err := db.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []model.EntryTodo{}
	for rows.Next() {
		var todo model.EntryTodo
		if err := rows.Scan(&todo.TodoID, &todo.Task, &todo.Description, &todo.Status, &todo.Priority); err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}
