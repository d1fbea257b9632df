package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hackathon-portal/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (domain.User, error)
	LinkProvider(ctx context.Context, id, provider, subject string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

const pgUniqueViolation = "23505"

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `id, email, username, first_name, last_name, phone_number, gender,
	password_hash, google_id, github_id, last_login_at, created_at, updated_at`

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		nullable(user.Username),
		user.FirstName,
		user.LastName,
		nullable(user.PhoneNumber),
		nullable(string(user.Gender)),
		nullable(user.PasswordHash),
		nullable(user.GoogleID),
		nullable(user.GithubID),
		user.LastLoginAt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

// UpdateProfile aplica solo los campos no nil; COALESCE conserva el resto.
func (r *PgUserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (domain.User, error) {
	query := `
		UPDATE users SET
			first_name   = COALESCE($2, first_name),
			last_name    = COALESCE($3, last_name),
			email        = COALESCE($4, email),
			phone_number = COALESCE($5, phone_number),
			gender       = COALESCE($6, gender),
			updated_at   = $7
		WHERE id = $1
		RETURNING ` + userColumns

	var gender *string
	if update.Gender != nil {
		g := string(*update.Gender)
		gender = &g
	}
	user, err := scanUser(r.pool.QueryRow(ctx, query,
		id,
		update.FirstName,
		update.LastName,
		update.Email,
		update.PhoneNumber,
		gender,
		time.Now().UTC(),
	))
	if isUniqueViolation(err) {
		return domain.User{}, ErrDuplicateEmail
	}
	return user, err
}

func (r *PgUserRepository) LinkProvider(ctx context.Context, id, provider, subject string) error {
	var query string
	switch provider {
	case domain.ProviderGoogle:
		query = `UPDATE users SET google_id = $2, updated_at = $3 WHERE id = $1`
	case domain.ProviderGitHub:
		query = `UPDATE users SET github_id = $2, updated_at = $3 WHERE id = $1`
	default:
		return fmt.Errorf("unknown provider %q", provider)
	}
	tag, err := r.pool.Exec(ctx, query, id, subject, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgUserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE users SET last_login_at = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	var username, phone, gender, hash, googleID, githubID *string
	err := row.Scan(
		&u.ID,
		&u.Email,
		&username,
		&u.FirstName,
		&u.LastName,
		&phone,
		&gender,
		&hash,
		&googleID,
		&githubID,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	u.Username = deref(username)
	u.PhoneNumber = deref(phone)
	u.Gender = domain.Gender(deref(gender))
	u.PasswordHash = deref(hash)
	u.GoogleID = deref(googleID)
	u.GithubID = deref(githubID)
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
