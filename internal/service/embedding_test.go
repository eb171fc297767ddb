package service

import (
	"context"
	"testing"

	"github.com/daybook/backend/internal/model"
)

type fakeEmbeddingClient struct{}

type fakeEmbeddingRepo struct {
	upserts int
}

func (f *fakeEmbeddingClient) EmbedText(ctx context.Context, text string) ([]float32, string, error) {
	return []float32{0.1, 0.2}, "text-embedding-004", nil
}

func (f *fakeEmbeddingRepo) UpsertEntryEmbedding(ctx context.Context, entryID string, userID int64, modelName string, vector []float32) error {
	f.upserts++
	return nil
}

func (f *fakeEmbeddingRepo) FindRelatedEntries(ctx context.Context, entryID string, userID int64, limit int) ([]model.RelatedEntry, error) {
	return []model.RelatedEntry{{ID: "e2", Distance: 0.3}}, nil
}

func TestIndexEntry(t *testing.T) {
	repo := &fakeEmbeddingRepo{}
	svc := NewEmbeddingService(repo, &fakeEmbeddingClient{})

	entry := &model.DiaryEntry{ID: "e1", UserID: 1, Title: "A quiet day", Entry: "Nothing much happened."}
	if err := svc.IndexEntry(context.Background(), entry); err != nil {
		t.Fatal(err)
	}
	if repo.upserts != 1 {
		t.Fatalf("upserts = %d", repo.upserts)
	}
}

func TestEmbeddingServiceEnabled(t *testing.T) {
	var nilSvc *EmbeddingService
	if nilSvc.Enabled() {
		t.Fatal("nil service must report disabled")
	}
	if (&EmbeddingService{repo: &fakeEmbeddingRepo{}}).Enabled() {
		t.Fatal("service without a client must report disabled")
	}
	if !NewEmbeddingService(&fakeEmbeddingRepo{}, &fakeEmbeddingClient{}).Enabled() {
		t.Fatal("expected enabled")
	}
}
