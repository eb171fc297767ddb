package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/daybook/backend/internal/db"
	"github.com/daybook/backend/internal/model"
)

const (
	minTitleLength = 5
	minEntryLength = 10

	signedURLTTL = time.Hour
	relatedLimit = 5
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// ImageStore is the object store for entry images.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	SignedGetURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// UploadedImage is one image file received with a create request.
type UploadedImage struct {
	Name        string
	ContentType string
	Data        io.Reader
}

type DiaryService struct {
	repo       *db.Postgres
	storage    ImageStore
	embeddings *EmbeddingService
	now        func() time.Time
}

// NewDiaryService wires the diary logic. storage and embeddings may be nil;
// image upload is then rejected and embedding indexing skipped.
func NewDiaryService(repo *db.Postgres, storage ImageStore, embeddings *EmbeddingService) *DiaryService {
	return &DiaryService{repo: repo, storage: storage, embeddings: embeddings, now: time.Now}
}

func (s *DiaryService) Create(ctx context.Context, userID int64, req model.CreateEntryRequest, images []UploadedImage) (*model.DiaryEntry, error) {
	title := strings.TrimSpace(req.Title)
	if len(title) < minTitleLength || len(strings.TrimSpace(req.Entry)) < minEntryLength {
		return nil, ErrInvalidInput
	}

	mood := req.Mood
	if mood == "" {
		mood = model.MoodNeutral
	}
	if !model.ValidMood(mood) {
		return nil, ErrInvalidInput
	}

	date := req.Date
	if date == "" {
		date = s.now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrInvalidInput
	}

	stored, err := s.uploadImages(ctx, images)
	if err != nil {
		return nil, err
	}

	entry := &model.DiaryEntry{
		ID:     uuid.NewString(),
		Title:  title,
		Entry:  req.Entry,
		Mood:   mood,
		Images: stored,
		Videos: emptyIfNil(req.Videos),
		Links:  emptyIfNil(req.Links),
		UserID: userID,
		Date:   date,
	}

	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	if s.embeddings.Enabled() {
		if err := s.embeddings.IndexEntry(ctx, entry); err != nil {
			log.Printf("[Diary] embedding entry %s failed: %v", entry.ID, err)
		}
	}
	return entry, nil
}

func (s *DiaryService) uploadImages(ctx context.Context, images []UploadedImage) ([]model.EntryImage, error) {
	stored := []model.EntryImage{}
	if len(images) == 0 {
		return stored, nil
	}
	if s.storage == nil {
		return nil, fmt.Errorf("image storage not configured")
	}
	for _, image := range images {
		if _, ok := allowedImageTypes[image.ContentType]; !ok {
			return nil, ErrInvalidInput
		}
		key := fmt.Sprintf("uploads/images/%s-%s", uuid.NewString(), image.Name)
		if err := s.storage.Upload(ctx, key, image.ContentType, image.Data); err != nil {
			return nil, err
		}
		stored = append(stored, model.EntryImage{Key: key})
	}
	return stored, nil
}

// Get loads one entry and attaches short-lived signed URLs to its images.
func (s *DiaryService) Get(ctx context.Context, entryID string, userID int64) (*model.DiaryEntry, error) {
	entry, err := s.repo.GetEntryByID(ctx, entryID, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if s.storage != nil {
		for i := range entry.Images {
			url, err := s.storage.SignedGetURL(ctx, entry.Images[i].Key, signedURLTTL)
			if err != nil {
				return nil, fmt.Errorf("signing image url: %w", err)
			}
			entry.Images[i].URL = url
		}
	}
	return entry, nil
}

func (s *DiaryService) List(ctx context.Context, userID int64) ([]model.EntrySummary, error) {
	return s.repo.ListEntries(ctx, userID)
}

func (s *DiaryService) ListInRange(ctx context.Context, userID int64, start, end string) ([]model.EntrySummary, error) {
	if _, err := time.Parse("2006-01-02", start); err != nil {
		return nil, ErrInvalidInput
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		return nil, ErrInvalidInput
	}
	return s.repo.ListEntriesInRange(ctx, userID, start, end)
}

func (s *DiaryService) ListByTime(ctx context.Context, userID int64, part, value string) ([]model.EntrySummary, error) {
	switch part {
	case "year", "month", "day":
	default:
		return nil, ErrInvalidInput
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil, ErrInvalidInput
	}
	return s.repo.ListEntriesByTimePart(ctx, userID, part, parsed)
}

func (s *DiaryService) Update(ctx context.Context, entryID string, userID int64, req model.UpdateEntryRequest) (*model.DiaryEntry, error) {
	entry, err := s.repo.GetEntryByID(ctx, entryID, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if len(title) < minTitleLength {
			return nil, ErrInvalidInput
		}
		entry.Title = title
	}
	if req.Entry != nil {
		if len(strings.TrimSpace(*req.Entry)) < minEntryLength {
			return nil, ErrInvalidInput
		}
		entry.Entry = *req.Entry
	}
	if req.Mood != nil {
		if !model.ValidMood(*req.Mood) {
			return nil, ErrInvalidInput
		}
		entry.Mood = *req.Mood
	}
	if req.Videos != nil {
		entry.Videos = *req.Videos
	}
	if req.Links != nil {
		entry.Links = *req.Links
	}

	if err := s.repo.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}

	if s.embeddings.Enabled() {
		if err := s.embeddings.IndexEntry(ctx, entry); err != nil {
			log.Printf("[Diary] embedding entry %s failed: %v", entry.ID, err)
		}
	}
	return entry, nil
}

// Delete removes the entry and best-effort deletes its stored images.
func (s *DiaryService) Delete(ctx context.Context, entryID string, userID int64) error {
	deleted, err := s.repo.DeleteEntry(ctx, entryID, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}
	if s.storage != nil {
		for _, image := range deleted.Images {
			if err := s.storage.Delete(ctx, image.Key); err != nil {
				log.Printf("[Diary] deleting image %s failed: %v", image.Key, err)
			}
		}
	}
	return nil
}

func (s *DiaryService) Related(ctx context.Context, entryID string, userID int64) ([]model.RelatedEntry, error) {
	if !s.embeddings.Enabled() {
		return nil, ErrMisconfigured
	}
	return s.embeddings.Related(ctx, entryID, userID)
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
