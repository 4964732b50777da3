package monitors

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const defaultTimeout = 2 * time.Second

// CheckDatabase pings the pool behind db.
func CheckDatabase(ctx context.Context, db *gorm.DB, timeout time.Duration) error {
	if timeout == 0 {
		timeout = defaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sqlDB, err := db.DB()

	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %v", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %v", err)
	}

	return nil
}

// CheckRedis pings rdb. A nil client is reported as an error by the caller
// only if Redis was configured.
func CheckRedis(ctx context.Context, rdb *redis.Client, timeout time.Duration) error {
	if timeout == 0 {
		timeout = defaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %v", err)
	}

	return nil
}
