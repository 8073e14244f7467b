package utils

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var rdb *redis.Client

var redisCtx = context.Background()

// ConnectRedis dials Redis from REDIS_ADDRESS. A missing or unreachable
// Redis leaves the client nil; callers then see cache misses instead of
// errors, so the cache never takes a request down with it.
func ConnectRedis() {
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(redisCtx).Err(); err != nil {
		log.Printf("Redis unreachable at %s, caching disabled: %v", addr, err)
		return
	}
	rdb = client
}

func GetRedisObject(key string, dest interface{}) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	val, err := rdb.Get(redisCtx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

func SetRedisObject(key string, obj interface{}, exp time.Duration) error {
	if rdb == nil {
		return nil
	}
	objInByte, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return rdb.Set(redisCtx, key, objInByte, exp).Err()
}

// PushRedisRecent prepends member to a capped list, most recent first.
func PushRedisRecent(key string, member string, limit int64) error {
	if rdb == nil {
		return nil
	}
	pipe := rdb.TxPipeline()
	pipe.LRem(redisCtx, key, 0, member)
	pipe.LPush(redisCtx, key, member)
	pipe.LTrim(redisCtx, key, 0, limit-1)
	_, err := pipe.Exec(redisCtx)
	return err
}

func GetRedisRecent(key string) ([]string, error) {
	if rdb == nil {
		return nil, nil
	}
	return rdb.LRange(redisCtx, key, 0, -1).Result()
}
