package db

import (
	"context"
	"time"

	"github.com/daybook/backend/internal/model"
)

func (db *Postgres) GetDashboardStats(ctx context.Context, userID int64) (*model.DashboardResponse, error) {
	stats := &model.DashboardResponse{
		MoodBreakdown: map[string]int{},
		TodosByStatus: map[string]int{},
	}

	var lastEntryDate *time.Time
	err := db.Pool.QueryRow(ctx,
		`SELECT total_entries, last_entry_date FROM users WHERE id = $1`,
		userID,
	).Scan(&stats.TotalEntries, &lastEntryDate)
	if err != nil {
		return nil, err
	}
	if lastEntryDate != nil {
		formatted := lastEntryDate.Format(dateLayout)
		stats.LastEntryDate = &formatted
	}

	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM diary_entries
		WHERE user_id = $1 AND entry_date >= date_trunc('month', CURRENT_DATE)`,
		userID,
	).Scan(&stats.EntriesThisMonth)
	if err != nil {
		return nil, err
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT mood, COUNT(*) FROM diary_entries WHERE user_id = $1 GROUP BY mood`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var mood string
		var count int
		if err := rows.Scan(&mood, &count); err != nil {
			return nil, err
		}
		stats.MoodBreakdown[mood] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.Pool.Query(ctx,
		`SELECT status, COUNT(*) FROM todos WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.TodosByStatus[status] = count
	}
	return stats, rows.Err()
}
