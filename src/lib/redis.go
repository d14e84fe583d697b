package lib

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// GetRedisClient returns the shared client, or nil when REDIS_HOST is not
// configured. Callers must treat a nil client as cache disabled.
func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		log.Println("[redis] REDIS_HOST not set, cache disabled")
		return nil
	}
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

func NewRedisClient(client *redis.Client) {
	redisClient = client
}

func EventCacheKey(id uint) string {
	return fmt.Sprintf("event:%d", id)
}

func CacheGet(ctx context.Context, key string) (string, bool) {
	client := GetRedisClient()
	if client == nil {
		return "", false
	}
	val, err := client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func CacheSet(ctx context.Context, key, value string, ttl time.Duration) {
	client := GetRedisClient()
	if client == nil {
		return
	}
	if err := client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("[redis] Error writing key %s: %s\n", key, err.Error())
	}
}

func InvalidateEventCache(id uint) {
	client := GetRedisClient()
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Del(ctx, EventCacheKey(id)).Err(); err != nil {
		log.Printf("[redis] Error invalidating event %d: %s\n", id, err.Error())
	}
}
