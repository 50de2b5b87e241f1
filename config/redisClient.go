package config

import (
	"context"
	"os"

	"civic-reporter-api/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var Ctx = context.Background()
var RedisClient *redis.Client

// ConnectRedis initializes the Redis client used by the issue rate
// limiter. Redis is optional: when REDIS_ADDRESS is unset the client
// stays nil and rate limiting is skipped.
func ConnectRedis() {
	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		utils.Log.Info("REDIS_ADDRESS not set, issue rate limiting disabled")
		return
	}

	redisPassword := os.Getenv("REDIS_PASSWORD")
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       0,
	})

	if _, err := RedisClient.Ping(Ctx).Result(); err != nil {
		utils.Log.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	utils.Log.Info("Connected to Redis")
}
