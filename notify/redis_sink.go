// notify/redis_sink.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisSink 把事件 JSON 推进 Redis 列表，外部待办系统消费
// 队列条目 id 即外部句柄
type RedisSink struct {
	rdb      *redis.Client
	queueKey string
	throttle time.Duration
}

func NewRedisSink(rdb *redis.Client, queueKey string, throttle time.Duration) *RedisSink {
	if queueKey == "" {
		queueKey = "stock:alert:events"
	}
	return &RedisSink{rdb: rdb, queueKey: queueKey, throttle: throttle}
}

func throttleKey(consumableID string) string {
	return fmt.Sprintf("stock:alert:throttle:%s", consumableID)
}

func (s *RedisSink) Push(ctx context.Context, ev Event) (string, error) {
	// 连续 updated 限流，opened/resolved 总是推
	if ev.Kind == "updated" && s.throttle > 0 {
		ok, err := s.rdb.SetNX(ctx, throttleKey(ev.ConsumableID), "1", s.throttle).Result()
		if err == nil && !ok {
			return "", nil
		}
	}

	ev.ID = uuid.NewString()
	ev.At = time.Now().UTC()
	b, err := json.Marshal(ev)
	if err != nil {
		return "", err
	}
	if err := s.rdb.LPush(ctx, s.queueKey, b).Err(); err != nil {
		return "", err
	}
	return ev.ID, nil
}

func (s *RedisSink) Withdraw(ctx context.Context, ev Event) error {
	ev.ID = uuid.NewString()
	ev.At = time.Now().UTC()
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.rdb.LPush(ctx, s.queueKey, b).Err()
}
