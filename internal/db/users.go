package db

import (
	"context"
	"time"

	"github.com/daybook/backend/internal/model"
)

const userColumns = `
	id, username, email, password_hash,
	name, bio, dob, theme, notifications, timezone,
	total_entries, last_entry_date, created_at, updated_at`

// ProfileUpdate carries the optional profile fields of a partial update.
// Nil fields keep their stored value.
type ProfileUpdate struct {
	Name          *string
	Bio           *string
	DOB           *time.Time
	Theme         *string
	Notifications *bool
	Timezone      *string
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var user model.User
	var lastEntryDate *time.Time
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Profile.Name,
		&user.Profile.Bio,
		&user.Profile.DOB,
		&user.Profile.Settings.Theme,
		&user.Profile.Settings.Notifications,
		&user.Profile.Settings.Timezone,
		&user.Profile.DiaryStats.TotalEntries,
		&lastEntryDate,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastEntryDate != nil {
		formatted := lastEntryDate.Format("2006-01-02")
		user.Profile.DiaryStats.LastEntryDate = &formatted
	}
	return &user, nil
}

func (db *Postgres) CreateUser(ctx context.Context, username, email, passwordHash string) (*model.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + userColumns
	return scanUser(db.Pool.QueryRow(ctx, query, username, email, passwordHash))
}

func (db *Postgres) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, email))
}

func (db *Postgres) GetUserByID(ctx context.Context, userID int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, userID))
}

// ListUsers returns every user; the end-of-day migrator iterates the
// result serially.
func (db *Postgres) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (db *Postgres) UpdateUserProfile(ctx context.Context, userID int64, update ProfileUpdate) (*model.User, error) {
	query := `
		UPDATE users SET
			name = COALESCE($2, name),
			bio = COALESCE($3, bio),
			dob = COALESCE($4, dob),
			theme = COALESCE($5, theme),
			notifications = COALESCE($6, notifications),
			timezone = COALESCE($7, timezone),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(db.Pool.QueryRow(ctx, query, userID,
		update.Name, update.Bio, update.DOB, update.Theme, update.Notifications, update.Timezone))
}
