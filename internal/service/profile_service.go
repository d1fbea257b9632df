package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hackathon-portal/internal/domain"
	"hackathon-portal/internal/repository"
)

const activityFeedLimit = 50

// ProfileService expone el perfil del usuario autenticado.
type ProfileService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	activities  repository.ActivityRepository
	phoneRegion string
}

func NewProfileService(logger *zap.Logger, users repository.UserRepository, activities repository.ActivityRepository, phoneRegion string) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		logger:      logger,
		users:       users,
		activities:  activities,
		phoneRegion: phoneRegion,
	}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Update aplica solo los campos presentes en input.
func (s *ProfileService) Update(ctx context.Context, userID string, input ProfileUpdateInput) (domain.User, error) {
	update, err := input.toUpdate(s.phoneRegion)
	if err != nil {
		return domain.User{}, err
	}
	if update.Empty() {
		return s.Get(ctx, userID)
	}

	user, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return domain.User{}, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicateEmail):
			return domain.User{}, ErrEmailInUse
		default:
			return domain.User{}, fmt.Errorf("update user: %w", err)
		}
	}

	activity := domain.Activity{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        domain.ActivityProfileUpdate,
		Description: "Profile updated",
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		s.logger.Warn("record activity failed", zap.String("user_id", userID), zap.Error(err))
	}
	return user, nil
}

// ListActivity devuelve las ultimas entradas del historial, mas reciente primero.
func (s *ProfileService) ListActivity(ctx context.Context, userID string) ([]domain.Activity, error) {
	items, err := s.activities.ListByUserID(ctx, userID, activityFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return items, nil
}
