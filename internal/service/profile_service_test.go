package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"hackathon-portal/internal/domain"
	"hackathon-portal/internal/repository"
)

func seedUser(t *testing.T, users *repository.MemoryUserRepository, id, email string) domain.User {
	t.Helper()
	now := time.Now().UTC()
	user := domain.User{
		ID:          id,
		Email:       email,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		PhoneNumber: "+16502530000",
		Gender:      domain.GenderFemale,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestProfileService_PartialUpdate(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	activities := repository.NewMemoryActivityRepository()
	svc := NewProfileService(zap.NewNop(), users, activities, "US")
	before := seedUser(t, users, "u1", "ada@example.com")

	after, err := svc.Update(context.Background(), "u1", ProfileUpdateInput{LastName: "X"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if after.LastName != "X" {
		t.Fatalf("expected lastName updated, got %q", after.LastName)
	}
	if after.FirstName != before.FirstName || after.Email != before.Email || after.PhoneNumber != before.PhoneNumber || after.Gender != before.Gender {
		t.Fatalf("expected other fields unchanged, got %+v", after)
	}

	items, _ := svc.ListActivity(context.Background(), "u1")
	if len(items) != 1 || items[0].Type != domain.ActivityProfileUpdate {
		t.Fatalf("expected profile_update activity, got %+v", items)
	}
}

func TestProfileService_Errors(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	svc := NewProfileService(zap.NewNop(), users, repository.NewMemoryActivityRepository(), "US")
	seedUser(t, users, "u1", "ada@example.com")
	seedUser(t, users, "u2", "grace@example.com")
	ctx := context.Background()

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.Update(ctx, "missing", ProfileUpdateInput{FirstName: "Z"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on update, got %v", err)
	}
	if _, err := svc.Update(ctx, "u1", ProfileUpdateInput{Email: "grace@example.com"}); !errors.Is(err, ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
	if _, err := svc.Update(ctx, "u1", ProfileUpdateInput{Gender: "Robot"}); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProfileService_EmptyUpdateReturnsCurrent(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	activities := repository.NewMemoryActivityRepository()
	svc := NewProfileService(zap.NewNop(), users, activities, "US")
	seedUser(t, users, "u1", "ada@example.com")

	user, err := svc.Update(context.Background(), "u1", ProfileUpdateInput{FirstName: "  "})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if user.FirstName != "Ada" {
		t.Fatalf("expected unchanged user, got %+v", user)
	}
	items, _ := activities.ListByUserID(context.Background(), "u1", 10)
	if len(items) != 0 {
		t.Fatalf("expected no activity for empty update")
	}
}

func TestProfileService_ActivityUpdateFailureIsNotFatal(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	failing := failingActivityRepo{ActivityRepository: repository.NewMemoryActivityRepository(), err: errors.New("db down")}
	svc := NewProfileService(zap.NewNop(), users, failing, "US")
	seedUser(t, users, "u1", "ada@example.com")

	if _, err := svc.Update(context.Background(), "u1", ProfileUpdateInput{FirstName: "Augusta"}); err != nil {
		t.Fatalf("expected update to succeed, got %v", err)
	}
}
