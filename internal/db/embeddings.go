package db

import (
	"context"
	"time"

	"github.com/daybook/backend/internal/model"
	"github.com/pgvector/pgvector-go"
)

func (db *Postgres) UpsertEntryEmbedding(ctx context.Context, entryID string, userID int64, modelName string, vector []float32) error {
	query := `
		INSERT INTO entry_embeddings (entry_id, user_id, embedding, model)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (entry_id)
		DO UPDATE SET embedding = EXCLUDED.embedding, model = EXCLUDED.model`
	_, err := db.Pool.Exec(ctx, query, entryID, userID, pgvector.NewVector(vector), modelName)
	return err
}

// FindRelatedEntries returns the user's nearest other entries by cosine
// distance from the given entry's embedding.
func (db *Postgres) FindRelatedEntries(ctx context.Context, entryID string, userID int64, limit int) ([]model.RelatedEntry, error) {
	query := `
		SELECT d.id, d.title, d.mood, d.entry_date, e.embedding <=> src.embedding AS distance
		FROM entry_embeddings src
		JOIN entry_embeddings e ON e.user_id = src.user_id AND e.entry_id <> src.entry_id
		JOIN diary_entries d ON d.id = e.entry_id
		WHERE src.entry_id = $1 AND src.user_id = $2
		ORDER BY distance
		LIMIT $3`
	rows, err := db.Pool.Query(ctx, query, entryID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	related := []model.RelatedEntry{}
	for rows.Next() {
		var entry model.RelatedEntry
		var entryDate time.Time
		if err := rows.Scan(&entry.ID, &entry.Title, &entry.Mood, &entryDate, &entry.Distance); err != nil {
			return nil, err
		}
		entry.Date = entryDate.Format(dateLayout)
		related = append(related, entry)
	}
	return related, rows.Err()
}
