package repository

import (
	"context"
	"fmt"

	"tokenrelay/internal/database"
	"tokenrelay/internal/domain"
)

// Store is the credential store: users plus the single renewal token each
// one may hold. UserRepository and RedisUserRepository both implement it.
type Store interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByRenewalToken(ctx context.Context, token string) (*domain.User, error)
	SetRenewalToken(ctx context.Context, userID int64, token *string) error
	ClearRenewalTokenIf(ctx context.Context, userID int64, token string) (bool, error)
	ListWithRenewalTokens(ctx context.Context) ([]domain.User, error)
}

var (
	_ Store = (*UserRepository)(nil)
	_ Store = (*RedisUserRepository)(nil)
)

// Open picks the backend from the DSN scheme: redis:// and rediss:// use
// Redis, postgres:// uses PostgreSQL, anything else is a SQLite path. SQL
// backends are migrated before Open returns. The returned func releases the
// connection.
func Open(ctx context.Context, dsn string) (Store, func() error, error) {
	if database.IsRedis(dsn) {
		rdb, err := ConnectRedis(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisUserRepository(rdb), rdb.Close, nil
	}

	db, err := database.Connect(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	return NewUserRepository(db), sqlDB.Close, nil
}
