package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"hackathon-portal/internal/domain"
)

// MemoryUserRepository guarda usuarios en memoria. Se usa con DATABASE_URL=memory:// y en tests.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return ErrDuplicateEmail
	}
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *MemoryUserRepository) UpdateProfile(_ context.Context, id string, update domain.ProfileUpdate) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	if update.Email != nil && *update.Email != user.Email {
		if _, taken := r.byEmail[*update.Email]; taken {
			return domain.User{}, ErrDuplicateEmail
		}
		delete(r.byEmail, user.Email)
		user.Email = *update.Email
		r.byEmail[user.Email] = id
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.PhoneNumber != nil {
		user.PhoneNumber = *update.PhoneNumber
	}
	if update.Gender != nil {
		user.Gender = *update.Gender
	}
	user.UpdatedAt = time.Now().UTC()
	r.byID[id] = user
	return user, nil
}

func (r *MemoryUserRepository) LinkProvider(_ context.Context, id, provider, subject string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	switch provider {
	case domain.ProviderGoogle:
		user.GoogleID = subject
	case domain.ProviderGitHub:
		user.GithubID = subject
	default:
		return fmt.Errorf("unknown provider %q", provider)
	}
	r.byID[id] = user
	return nil
}

func (r *MemoryUserRepository) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	user.LastLoginAt = &at
	r.byID[id] = user
	return nil
}

// Len devuelve la cantidad de usuarios guardados.
func (r *MemoryUserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

type MemoryActivityRepository struct {
	mu    sync.RWMutex
	items []domain.Activity
}

func NewMemoryActivityRepository() *MemoryActivityRepository {
	return &MemoryActivityRepository{}
}

func (r *MemoryActivityRepository) Create(_ context.Context, activity domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, activity)
	return nil
}

func (r *MemoryActivityRepository) ListByUserID(_ context.Context, userID string, limit int) ([]domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Activity, 0)
	for _, a := range r.items {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var (
	_ UserRepository     = (*PgUserRepository)(nil)
	_ UserRepository     = (*MongoUserRepository)(nil)
	_ UserRepository     = (*MemoryUserRepository)(nil)
	_ ActivityRepository = (*PgActivityRepository)(nil)
	_ ActivityRepository = (*MongoActivityRepository)(nil)
	_ ActivityRepository = (*MemoryActivityRepository)(nil)
)
