package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"hackathon-portal/internal/domain"
)

// ActivityRepository persiste el historial append-only de cada usuario.
type ActivityRepository interface {
	Create(ctx context.Context, activity domain.Activity) error
	ListByUserID(ctx context.Context, userID string, limit int) ([]domain.Activity, error)
}

type PgActivityRepository struct {
	pool *pgxpool.Pool
}

func NewPgActivityRepository(pool *pgxpool.Pool) *PgActivityRepository {
	return &PgActivityRepository{pool: pool}
}

func (r *PgActivityRepository) Create(ctx context.Context, activity domain.Activity) error {
	const query = `
		INSERT INTO activities (id, user_id, type, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		activity.ID,
		activity.UserID,
		string(activity.Type),
		activity.Description,
		activity.CreatedAt,
	)
	return err
}

func (r *PgActivityRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]domain.Activity, error) {
	const query = `
		SELECT id, user_id, type, description, created_at
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]domain.Activity, 0)
	for rows.Next() {
		var (
			a   domain.Activity
			typ string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &typ, &a.Description, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Type = domain.ActivityType(typ)
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return activities, nil
}
