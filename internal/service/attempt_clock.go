package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// AttemptClock keeps the start time of an in-progress attempt per learner and quiz.
type AttemptClock interface {
	// Start records now as the start time unless one already exists, and returns
	// the effective start time.
	Start(ctx context.Context, userID, quizID uint, now time.Time) (time.Time, error)
	// Started returns the start time, or false when no attempt is in progress.
	Started(ctx context.Context, userID, quizID uint) (time.Time, bool, error)
	Clear(ctx context.Context, userID, quizID uint) error
}

type RedisAttemptClock struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisAttemptClock(client *redis.Client, ttl time.Duration) *RedisAttemptClock {
	return &RedisAttemptClock{Client: client, TTL: ttl}
}

func timerKey(userID, quizID uint) string {
	return fmt.Sprintf("quiz_timer:%d:%d", userID, quizID)
}

func (c *RedisAttemptClock) Start(ctx context.Context, userID, quizID uint, now time.Time) (time.Time, error) {
	key := timerKey(userID, quizID)
	ok, err := c.Client.SetNX(ctx, key, now.UnixMilli(), c.TTL).Result()
	if err != nil {
		return time.Time{}, err
	}
	if ok {
		return now, nil
	}

	started, found, err := c.Started(ctx, userID, quizID)
	if err != nil {
		return time.Time{}, err
	}
	if !found {
		// expired between SetNX and Get
		if err := c.Client.Set(ctx, key, now.UnixMilli(), c.TTL).Err(); err != nil {
			return time.Time{}, err
		}
		return now, nil
	}
	return started, nil
}

func (c *RedisAttemptClock) Started(ctx context.Context, userID, quizID uint) (time.Time, bool, error) {
	val, err := c.Client.Get(ctx, timerKey(userID, quizID)).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	ms, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(ms), true, nil
}

func (c *RedisAttemptClock) Clear(ctx context.Context, userID, quizID uint) error {
	return c.Client.Del(ctx, timerKey(userID, quizID)).Err()
}

// MemoryAttemptClock is used when redis is disabled. Start times are lost on restart.
type MemoryAttemptClock struct {
	mu      sync.Mutex
	started map[string]time.Time
}

func NewMemoryAttemptClock() *MemoryAttemptClock {
	return &MemoryAttemptClock{started: make(map[string]time.Time)}
}

func (c *MemoryAttemptClock) Start(_ context.Context, userID, quizID uint, now time.Time) (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := timerKey(userID, quizID)
	if t, ok := c.started[key]; ok {
		return t, nil
	}
	c.started[key] = now
	return now, nil
}

func (c *MemoryAttemptClock) Started(_ context.Context, userID, quizID uint) (time.Time, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.started[timerKey(userID, quizID)]
	return t, ok, nil
}

func (c *MemoryAttemptClock) Clear(_ context.Context, userID, quizID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.started, timerKey(userID, quizID))
	return nil
}
