package service

import (
	"context"

	"github.com/daybook/backend/internal/model"
)

type EmbeddingRepo interface {
	UpsertEntryEmbedding(ctx context.Context, entryID string, userID int64, modelName string, vector []float32) error
	FindRelatedEntries(ctx context.Context, entryID string, userID int64, limit int) ([]model.RelatedEntry, error)
}

type EmbeddingClient interface {
	EmbedText(ctx context.Context, text string) ([]float32, string, error)
}

// EmbeddingService indexes diary entries as text embeddings and answers
// nearest-neighbour lookups over them.
type EmbeddingService struct {
	repo   EmbeddingRepo
	client EmbeddingClient
}

func NewEmbeddingService(repo EmbeddingRepo, client EmbeddingClient) *EmbeddingService {
	return &EmbeddingService{repo: repo, client: client}
}

func (s *EmbeddingService) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *EmbeddingService) IndexEntry(ctx context.Context, entry *model.DiaryEntry) error {
	vector, modelName, err := s.client.EmbedText(ctx, entry.Title+"\n\n"+entry.Entry)
	if err != nil {
		return err
	}
	return s.repo.UpsertEntryEmbedding(ctx, entry.ID, entry.UserID, modelName, vector)
}

func (s *EmbeddingService) Related(ctx context.Context, entryID string, userID int64) ([]model.RelatedEntry, error) {
	return s.repo.FindRelatedEntries(ctx, entryID, userID, relatedLimit)
}
