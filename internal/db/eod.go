package db

import (
	"context"
	"errors"

	"github.com/daybook/backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrAlreadyMigrated reports that another cycle already advanced
// last_entry_date to the target date.
var ErrAlreadyMigrated = errors.New("day already migrated")

// MigrateTodosToEntry performs one user's end-of-day migration as a single
// transaction:
//
//  1. conditionally advance users.last_entry_date to localDate — the
//     compare-and-swap idempotency guard; zero rows affected means the day
//     was already processed and the whole transaction is abandoned
//  2. upsert the rollup diary entry keyed (user_id, entry_date)
//  3. append the todo snapshots; (entry_id, todo_id) keying makes re-runs
//     unable to duplicate them
//
// A crash anywhere rolls back everything, so the guard in step 1 never
// observes a partial migration. With no todos only step 1 runs; no entry
// is created. Returns the entry id, or "" when no entry was written.
func (db *Postgres) MigrateTodosToEntry(ctx context.Context, userID int64, localDate, title, body string, todos []model.Todo) (string, error) {
	var entryID string
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE users
			SET last_entry_date = $2, updated_at = NOW()
			WHERE id = $1 AND (last_entry_date IS NULL OR last_entry_date <> $2)`,
			userID, localDate)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrAlreadyMigrated
		}

		if len(todos) == 0 {
			return nil
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO diary_entries (id, title, entry, mood, user_id, entry_date, rollup, created_at, updated_at)
			VALUES ($1, $2, $3, 'neutral', $4, $5, TRUE, NOW(), NOW())
			ON CONFLICT (user_id, entry_date) WHERE rollup
			DO UPDATE SET updated_at = NOW()
			RETURNING id`,
			uuid.NewString(), title, body, userID, localDate,
		).Scan(&entryID)
		if err != nil {
			return err
		}

		for position, todo := range todos {
			_, err := tx.Exec(ctx, `
				INSERT INTO entry_todos (entry_id, todo_id, task, description, status, priority, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (entry_id, todo_id) DO NOTHING`,
				entryID, todo.ID, todo.Task, todo.Description, todo.Status, todo.Priority, position)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return entryID, nil
}
