package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"hackathon-portal/internal/domain"
)

func TestMemoryUserRepository_UniqueEmail(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, domain.User{ID: "u1", Email: "user@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := repo.Create(ctx, domain.User{ID: "u2", Email: "user@example.com"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if repo.Len() != 1 {
		t.Fatalf("expected a single user, got %d", repo.Len())
	}
	if _, err := repo.GetByEmail(ctx, "USER@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected case-sensitive lookup to miss, got %v", err)
	}
}

func TestMemoryUserRepository_UpdateProfilePartial(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	_ = repo.Create(ctx, domain.User{ID: "u1", Email: "a@example.com", FirstName: "Ada", LastName: "Byron", PhoneNumber: "+16502530000"})
	_ = repo.Create(ctx, domain.User{ID: "u2", Email: "b@example.com"})

	last := "Lovelace"
	user, err := repo.UpdateProfile(ctx, "u1", domain.ProfileUpdate{LastName: &last})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if user.LastName != "Lovelace" || user.FirstName != "Ada" || user.PhoneNumber != "+16502530000" || user.Email != "a@example.com" {
		t.Fatalf("unexpected user after partial update: %+v", user)
	}

	taken := "b@example.com"
	if _, err := repo.UpdateProfile(ctx, "u1", domain.ProfileUpdate{Email: &taken}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if _, err := repo.UpdateProfile(ctx, "missing", domain.ProfileUpdate{LastName: &last}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryActivityRepository_NewestFirstWithLimit(t *testing.T) {
	repo := NewMemoryActivityRepository()
	ctx := context.Background()
	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		_ = repo.Create(ctx, domain.Activity{
			ID:        string(rune('a' + i)),
			UserID:    "u1",
			Type:      domain.ActivityLogin,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	_ = repo.Create(ctx, domain.Activity{ID: "x", UserID: "u2", Type: domain.ActivityLogin, CreatedAt: base})

	items, err := repo.ListByUserID(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != "c" || items[1].ID != "b" {
		t.Fatalf("unexpected activities: %+v", items)
	}
}
