package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	domainRepo "go-medical-appointment/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

// Counts failures in a fixed window. Reaching the limit sets the lock key for
// the same duration and clears the counter.
var loginFailureScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current >= tonumber(ARGV[2]) then
  redis.call("SET", KEYS[2], "1", "PX", ARGV[1])
  redis.call("DEL", KEYS[1])
end
return current
`)

type loginAttemptStore struct {
	rdb          *redis.Client
	maxAttempts  int
	lockDuration time.Duration
}

func NewLoginAttemptStore(rdb *redis.Client, maxAttempts int, lockDuration time.Duration) domainRepo.LoginAttemptStore {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if lockDuration <= 0 {
		lockDuration = 15 * time.Minute
	}
	return &loginAttemptStore{rdb: rdb, maxAttempts: maxAttempts, lockDuration: lockDuration}
}

func attemptsKey(key string) string {
	return "login_attempts:" + strings.ToLower(key)
}

func lockKey(key string) string {
	return "login_lock:" + strings.ToLower(key)
}

func (s *loginAttemptStore) IsLocked(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, lockKey(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *loginAttemptStore) RegisterFailure(ctx context.Context, key string) (int64, bool, error) {
	res, err := loginFailureScript.Run(ctx, s.rdb,
		[]string{attemptsKey(key), lockKey(key)},
		s.lockDuration.Milliseconds(), s.maxAttempts,
	).Result()
	if err != nil {
		return 0, false, err
	}

	var attempts int64
	switch v := res.(type) {
	case int64:
		attempts = v
	case string:
		attempts, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false, err
		}
	default:
		return 0, false, fmt.Errorf("unexpected redis script result type %T", res)
	}

	return attempts, attempts >= int64(s.maxAttempts), nil
}

func (s *loginAttemptStore) Reset(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, attemptsKey(key), lockKey(key)).Err()
}
