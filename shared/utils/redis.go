package utils

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

var (
	RedisClient *redis.Client
	ctx         = context.Background()
)

const migrationLockKey = "migration:run-lock"

// InitRedis initializes the Redis client
func InitRedis() error {
	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		redisHost = "localhost"
	}

	redisPort := os.Getenv("REDIS_PORT")
	if redisPort == "" {
		redisPort = "6379"
	}

	addr := fmt.Sprintf("%s:%s", redisHost, redisPort)

	RedisClient = redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     "", // No password by default
		DB:           0,  // Default DB
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Test connection
	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	return nil
}

// AcquireMigrationLock takes the single-runner lease. Provisioning issues
// engine-wide DDL, so two orchestrator instances must never run at once; the
// lease is TTL-bounded so a crashed run cannot wedge the lock forever.
// Returns false when another runner already holds the lease.
func AcquireMigrationLock(holder string, ttl time.Duration) (bool, error) {
	if RedisClient == nil {
		return false, fmt.Errorf("Redis client not initialized")
	}
	return RedisClient.SetNX(ctx, migrationLockKey, holder, ttl).Result()
}

// ReleaseMigrationLock releases the lease if this runner still holds it.
func ReleaseMigrationLock(holder string) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	current, err := RedisClient.Get(ctx, migrationLockKey).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read migration lock: %w", err)
	}
	if current != holder {
		return fmt.Errorf("migration lock held by another runner")
	}
	return RedisClient.Del(ctx, migrationLockKey).Err()
}

// GetRedisClient returns the Redis client instance (for advanced operations)
func GetRedisClient() *redis.Client {
	return RedisClient
}

// CloseRedis closes the Redis connection
func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}
