package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/routineapp/routine-server/internal/logger"
	"github.com/routineapp/routine-server/internal/model"
)

// redeemScript atomically compares the stored identifier with the
// presented one and deletes the entry on a match. Running it server-side
// guarantees at most one concurrent redeemer wins for a given entry.
const redeemScript = `
local current = redis.call("GET", KEYS[1])
if current == false then
  return "absent"
end
if current ~= ARGV[1] then
  return "superseded"
end
redis.call("DEL", KEYS[1])
return "matched"
`

// redisClient is the subset of *redis.Client the authority uses,
// extracted to enable mocking without a running server.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// Authority implements model.SessionAuthority over Redis.
type Authority struct {
	client redisClient
	logger *logger.Logger
}

var _ model.SessionAuthority = (*Authority)(nil)

// NewAuthority creates a session authority backed by the given Redis client.
func NewAuthority(client *redis.Client, logger *logger.Logger) *Authority {
	return NewAuthorityWithClient(client, logger)
}

// NewAuthorityWithClient allows injecting a mockable client (used in tests).
func NewAuthorityWithClient(client redisClient, logger *logger.Logger) *Authority {
	return &Authority{client: client, logger: logger}
}

// Put registers id under key, overwriting any previous entry.
func (a *Authority) Put(ctx context.Context, key string, id string, ttl time.Duration) error {
	if err := a.client.Set(ctx, key, id, ttl).Err(); err != nil {
		return fmt.Errorf("failed to put session entry: %w", err)
	}

	a.logger.Debug("session authority: entry registered", "key", key, "ttl", ttl)
	return nil
}

// Validate compares id against the stored entry without consuming it.
func (a *Authority) Validate(ctx context.Context, key string, id string) (model.SessionState, error) {
	stored, err := a.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return model.SessionAbsent, nil
	}
	if err != nil {
		return model.SessionAbsent, fmt.Errorf("failed to get session entry: %w", err)
	}

	if stored != id {
		return model.SessionSuperseded, nil
	}
	return model.SessionMatched, nil
}

// Redeem atomically compares id against the stored entry and deletes it
// on a match.
func (a *Authority) Redeem(ctx context.Context, key string, id string) (model.SessionState, error) {
	result, err := a.client.Eval(ctx, redeemScript, []string{key}, id).Text()
	if err != nil {
		return model.SessionAbsent, fmt.Errorf("failed to redeem session entry: %w", err)
	}

	state, err := parseState(result)
	if err != nil {
		return model.SessionAbsent, err
	}

	a.logger.Debug("session authority: entry redeemed", "key", key, "state", state)
	return state, nil
}

// Invalidate deletes the entry; deleting an absent key is not an error.
func (a *Authority) Invalidate(ctx context.Context, key string) error {
	if err := a.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate session entry: %w", err)
	}

	a.logger.Debug("session authority: entry invalidated", "key", key)
	return nil
}

// Get returns the stored identifier, with ok reporting existence.
func (a *Authority) Get(ctx context.Context, key string) (string, bool, error) {
	stored, err := a.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get session entry: %w", err)
	}
	return stored, true, nil
}

func parseState(result string) (model.SessionState, error) {
	switch result {
	case "matched":
		return model.SessionMatched, nil
	case "superseded":
		return model.SessionSuperseded, nil
	case "absent":
		return model.SessionAbsent, nil
	default:
		return model.SessionAbsent, fmt.Errorf("unexpected redeem result %q", result)
	}
}
