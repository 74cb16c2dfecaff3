package lock

import (
	redis "github.com/redis/go-redis/v9"

	"github.com/stayledger/stayledger/internal/config"
)

// NewRedisClient builds the client backing the advisory Locker. Returns nil
// when no Redis address is configured; booking then relies on the database
// row lock alone.
func NewRedisClient(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}
