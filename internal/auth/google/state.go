package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateTTL bounds how long a login may take between redirect and callback.
const StateTTL = 10 * time.Minute

// StateStore tracks issued OAuth state values. The state is also echoed in
// a cookie; a store adds single-use enforcement on top of that.
type StateStore interface {
	Issue(ctx context.Context, state string) error
	// Consume reports whether state was issued and not yet used.
	Consume(ctx context.Context, state string) (bool, error)
}

// CookieStateStore relies on the state cookie alone.
type CookieStateStore struct{}

func (CookieStateStore) Issue(context.Context, string) error { return nil }

func (CookieStateStore) Consume(context.Context, string) (bool, error) { return true, nil }

// RedisStateStore records each state with SETNX and redeems it with GETDEL,
// so a callback can never be replayed.
type RedisStateStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStateStore(rdb *redis.Client) *RedisStateStore {
	return &RedisStateStore{rdb: rdb, ttl: StateTTL}
}

func stateKey(state string) string {
	return "oauth:state:" + state
}

func (r *RedisStateStore) Issue(ctx context.Context, state string) error {
	ok, err := r.rdb.SetNX(ctx, stateKey(state), "1", r.ttl).Result()
	if err != nil {
		return fmt.Errorf("store oauth state: %w", err)
	}
	if !ok {
		return fmt.Errorf("oauth state already issued")
	}
	return nil
}

func (r *RedisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	_, err := r.rdb.GetDel(ctx, stateKey(state)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redeem oauth state: %w", err)
	}
	return true, nil
}
