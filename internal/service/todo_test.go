package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/daybook/backend/internal/model"
)

func fixedClockTodoService(now time.Time) *TodoService {
	svc := NewTodoService(nil)
	svc.now = func() time.Time { return now }
	return svc
}

func TestEscalatePriorityDueSoon(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	svc := fixedClockTodoService(now)

	due := now.Add(24 * time.Hour)
	todo := &model.Todo{Priority: model.PriorityLow, DueDate: &due}
	svc.escalatePriority(todo)
	if todo.Priority != model.PriorityHigh {
		t.Fatalf("expected high, got %s", todo.Priority)
	}
}

func TestEscalatePriorityFarDue(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	svc := fixedClockTodoService(now)

	due := now.Add(72 * time.Hour)
	todo := &model.Todo{Priority: model.PriorityMedium, DueDate: &due}
	svc.escalatePriority(todo)
	if todo.Priority != model.PriorityMedium {
		t.Fatalf("expected medium, got %s", todo.Priority)
	}

	todo = &model.Todo{Priority: model.PriorityLow}
	svc.escalatePriority(todo)
	if todo.Priority != model.PriorityLow {
		t.Fatalf("expected low without a due date, got %s", todo.Priority)
	}
}

func TestEscalatePriorityNeverDowngrades(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	svc := fixedClockTodoService(now)

	due := now.Add(30 * 24 * time.Hour)
	todo := &model.Todo{Priority: model.PriorityHigh, DueDate: &due}
	svc.escalatePriority(todo)
	if todo.Priority != model.PriorityHigh {
		t.Fatalf("high must stay high, got %s", todo.Priority)
	}
}

func TestCreateTodoValidation(t *testing.T) {
	svc := fixedClockTodoService(time.Now())

	if _, err := svc.Create(context.Background(), 1, model.CreateTodoRequest{Task: "hi"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short task, got %v", err)
	}
	if _, err := svc.Create(context.Background(), 1, model.CreateTodoRequest{Task: "valid task", Status: "bogus"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad status, got %v", err)
	}
	if _, err := svc.Create(context.Background(), 1, model.CreateTodoRequest{Task: "valid task", Priority: "urgent"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad priority, got %v", err)
	}
}
