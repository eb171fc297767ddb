package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/daybook/backend/internal/db"
	"github.com/daybook/backend/internal/model"
)

const (
	minTaskLength = 5
	dueSoonWindow = 48 * time.Hour
)

type TodoService struct {
	repo *db.Postgres
	now  func() time.Time
}

func NewTodoService(repo *db.Postgres) *TodoService {
	return &TodoService{repo: repo, now: time.Now}
}

// escalatePriority forces priority to high when the due date is within 48
// hours of save time. One-directional: a priority is never lowered here.
func (s *TodoService) escalatePriority(todo *model.Todo) {
	if todo.DueDate == nil {
		return
	}
	if todo.DueDate.Sub(s.now()) < dueSoonWindow {
		todo.Priority = model.PriorityHigh
	}
}

func (s *TodoService) Create(ctx context.Context, userID int64, req model.CreateTodoRequest) (*model.Todo, error) {
	task := strings.TrimSpace(req.Task)
	if len(task) < minTaskLength {
		return nil, ErrInvalidInput
	}

	status := req.Status
	if status == "" {
		status = model.StatusTodo
	}
	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.ValidTodoStatus(status) || !model.ValidTodoPriority(priority) {
		return nil, ErrInvalidInput
	}

	todo := &model.Todo{
		ID:          uuid.NewString(),
		Task:        task,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      status,
		Priority:    priority,
		UserID:      userID,
	}
	s.escalatePriority(todo)

	if err := s.repo.CreateTodo(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) Get(ctx context.Context, todoID string, userID int64) (*model.Todo, error) {
	todo, err := s.repo.GetTodoByID(ctx, todoID, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) List(ctx context.Context, userID int64) ([]model.Todo, error) {
	return s.repo.ListTodos(ctx, userID)
}

func (s *TodoService) ListByPriority(ctx context.Context, userID int64, priority string) ([]model.Todo, error) {
	if !model.ValidTodoPriority(priority) {
		return nil, ErrInvalidInput
	}
	return s.repo.ListTodosByPriority(ctx, userID, priority)
}

func (s *TodoService) Update(ctx context.Context, todoID string, userID int64, req model.UpdateTodoRequest) (*model.Todo, error) {
	todo, err := s.Get(ctx, todoID, userID)
	if err != nil {
		return nil, err
	}

	if req.Task != nil {
		task := strings.TrimSpace(*req.Task)
		if len(task) < minTaskLength {
			return nil, ErrInvalidInput
		}
		todo.Task = task
	}
	if req.Description != nil {
		todo.Description = req.Description
	}
	if req.DueDate != nil {
		todo.DueDate = req.DueDate
	}
	if req.Status != nil {
		if !model.ValidTodoStatus(*req.Status) {
			return nil, ErrInvalidInput
		}
		todo.Status = *req.Status
	}
	if req.Priority != nil {
		if !model.ValidTodoPriority(*req.Priority) {
			return nil, ErrInvalidInput
		}
		todo.Priority = *req.Priority
	}
	s.escalatePriority(todo)

	if err := s.repo.UpdateTodo(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) ToggleStatus(ctx context.Context, todoID string, userID int64, status string) (*model.Todo, error) {
	if !model.ValidTodoStatus(status) {
		return nil, ErrInvalidInput
	}
	todo, err := s.Get(ctx, todoID, userID)
	if err != nil {
		return nil, err
	}
	todo.Status = status
	if err := s.repo.UpdateTodo(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, todoID string, userID int64) error {
	deleted, err := s.repo.DeleteTodo(ctx, todoID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
