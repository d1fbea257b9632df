package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hackathon-portal/internal/config"
	"hackathon-portal/internal/db"
	"hackathon-portal/internal/repository"
)

type stores struct {
	users      repository.UserRepository
	activities repository.ActivityRepository
	close      func()
}

// openStores conecta el backend elegido por DATABASE_URL.
func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (stores, error) {
	switch cfg.StoreDriver() {
	case config.DriverMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return stores{
			users:      repository.NewMemoryUserRepository(),
			activities: repository.NewMemoryActivityRepository(),
			close:      func() {},
		}, nil

	case config.DriverMongo:
		client, database, err := db.NewMongoDatabase(ctx, cfg)
		if err != nil {
			return stores{}, err
		}
		users := repository.NewMongoUserRepository(database)
		activities := repository.NewMongoActivityRepository(database)
		if err := users.EnsureIndexes(ctx); err != nil {
			return stores{}, fmt.Errorf("user indexes: %w", err)
		}
		if err := activities.EnsureIndexes(ctx); err != nil {
			return stores{}, fmt.Errorf("activity indexes: %w", err)
		}
		return stores{
			users:      users,
			activities: activities,
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = client.Disconnect(ctx)
			},
		}, nil

	default:
		if cfg.AutoMigrate {
			if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
				return stores{}, err
			}
		}
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return stores{}, err
		}
		return stores{
			users:      repository.NewPgUserRepository(pool),
			activities: repository.NewPgActivityRepository(pool),
			close:      pool.Close,
		}, nil
	}
}
