package data

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

const streamEvents = "accountability.events"

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// PublishEvent appends a submission or moderation event to the shared stream
// consumed by downstream notifiers. A nil client makes it a no-op so the
// service runs without Redis configured.
func PublishEvent(ctx context.Context, rdb *redis.Client, payload map[string]interface{}) error {
	if rdb == nil {
		return nil
	}
	_, err := rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: streamEvents,
		Values: payload,
	}).Result()
	return err
}
