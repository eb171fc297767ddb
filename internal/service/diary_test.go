package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/daybook/backend/internal/model"
)

func TestCreateEntryValidation(t *testing.T) {
	svc := NewDiaryService(nil, nil, nil)
	ctx := context.Background()

	cases := []model.CreateEntryRequest{
		{Title: "hi", Entry: "long enough entry text"},
		{Title: "long enough", Entry: "short"},
		{Title: "long enough", Entry: "long enough entry text", Mood: "grumpy"},
		{Title: "long enough", Entry: "long enough entry text", Date: "15-03-2026"},
	}
	for i, req := range cases {
		if _, err := svc.Create(ctx, 1, req, nil); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestCreateEntryRejectsImagesWithoutStorage(t *testing.T) {
	svc := NewDiaryService(nil, nil, nil)

	req := model.CreateEntryRequest{Title: "long enough", Entry: "long enough entry text"}
	images := []UploadedImage{{Name: "a.png", ContentType: "image/png", Data: strings.NewReader("x")}}
	if _, err := svc.Create(context.Background(), 1, req, images); err == nil {
		t.Fatal("expected error when storage is not configured")
	}
}
