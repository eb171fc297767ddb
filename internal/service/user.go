package service

import (
	"context"
	"strings"
	"time"

	"github.com/daybook/backend/internal/db"
	"github.com/daybook/backend/internal/model"
)

const minBioLength = 5

type UserService struct {
	repo *db.Postgres
}

func NewUserService(repo *db.Postgres) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a partial profile update. Absent fields keep their
// stored value; provided fields are validated first.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) (*model.User, error) {
	update := db.ProfileUpdate{
		Notifications: req.Notifications,
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		update.Name = &name
	}
	if req.Bio != nil {
		bio := strings.TrimSpace(*req.Bio)
		if len(bio) < minBioLength {
			return nil, ErrInvalidInput
		}
		update.Bio = &bio
	}
	if req.DOB != nil {
		dob, err := time.Parse("2006-01-02", *req.DOB)
		if err != nil {
			return nil, ErrInvalidInput
		}
		update.DOB = &dob
	}
	if req.Theme != nil {
		if !model.ValidTheme(*req.Theme) {
			return nil, ErrInvalidInput
		}
		update.Theme = req.Theme
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return nil, ErrInvalidInput
		}
		update.Timezone = req.Timezone
	}

	user, err := s.repo.UpdateUserProfile(ctx, userID, update)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
