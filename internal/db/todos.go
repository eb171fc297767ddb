package db

import (
	"context"
	"time"

	"github.com/daybook/backend/internal/model"
)

const todoColumns = `id, task, description, due_date, status, priority, user_id, created_at, updated_at`

func scanTodo(row rowScanner) (*model.Todo, error) {
	var todo model.Todo
	err := row.Scan(
		&todo.ID,
		&todo.Task,
		&todo.Description,
		&todo.DueDate,
		&todo.Status,
		&todo.Priority,
		&todo.UserID,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

func (db *Postgres) collectTodos(ctx context.Context, query string, args ...any) ([]model.Todo, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	return todos, rows.Err()
}

func (db *Postgres) CreateTodo(ctx context.Context, todo *model.Todo) error {
	query := `
		INSERT INTO todos (id, task, description, due_date, status, priority, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at`
	return db.Pool.QueryRow(ctx, query,
		todo.ID, todo.Task, todo.Description, todo.DueDate, todo.Status, todo.Priority, todo.UserID,
	).Scan(&todo.CreatedAt, &todo.UpdatedAt)
}

func (db *Postgres) GetTodoByID(ctx context.Context, todoID string, userID int64) (*model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`
	return scanTodo(db.Pool.QueryRow(ctx, query, todoID, userID))
}

func (db *Postgres) ListTodos(ctx context.Context, userID int64) ([]model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1 ORDER BY created_at DESC`
	return db.collectTodos(ctx, query, userID)
}

func (db *Postgres) ListTodosByPriority(ctx context.Context, userID int64, priority string) ([]model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1 AND priority = $2 ORDER BY created_at DESC`
	return db.collectTodos(ctx, query, userID, priority)
}

// ListTodosCreatedBetween returns the user's todos created in [start, end),
// oldest first. The migrator passes the UTC bounds of a local calendar day.
func (db *Postgres) ListTodosCreatedBetween(ctx context.Context, userID int64, start, end time.Time) ([]model.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at`
	return db.collectTodos(ctx, query, userID, start, end)
}

func (db *Postgres) UpdateTodo(ctx context.Context, todo *model.Todo) error {
	query := `
		UPDATE todos
		SET task = $3, description = $4, due_date = $5, status = $6, priority = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`
	return db.Pool.QueryRow(ctx, query,
		todo.ID, todo.UserID, todo.Task, todo.Description, todo.DueDate, todo.Status, todo.Priority,
	).Scan(&todo.UpdatedAt)
}

func (db *Postgres) DeleteTodo(ctx context.Context, todoID string, userID int64) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, todoID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
