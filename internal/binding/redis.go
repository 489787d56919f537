package binding

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var clearIfScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore keeps bindings as plain string keys, one per operator.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, prefix: "support:binding"}
}

func (s *RedisStore) key(tenantID int64, operatorID string) string {
	return fmt.Sprintf("%s:%d:%s", s.prefix, tenantID, operatorID)
}

func (s *RedisStore) Get(ctx context.Context, tenantID int64, operatorID string) (uint64, bool, error) {
	v, err := s.client.Get(ctx, s.key(tenantID, operatorID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrapf(err, "failed to get binding of %s", operatorID)
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false, errors.Wrapf(err, "corrupt binding of %s: %q", operatorID, v)
	}
	return id, true, nil
}

func (s *RedisStore) Set(ctx context.Context, tenantID int64, operatorID string, ticketID uint64) error {
	if err := s.client.Set(ctx, s.key(tenantID, operatorID), strconv.FormatUint(ticketID, 10), 0).Err(); err != nil {
		return errors.Wrapf(err, "failed to bind %s to ticket %d", operatorID, ticketID)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, tenantID int64, operatorID string) error {
	if err := s.client.Del(ctx, s.key(tenantID, operatorID)).Err(); err != nil {
		return errors.Wrapf(err, "failed to clear binding of %s", operatorID)
	}
	return nil
}

func (s *RedisStore) ClearIf(ctx context.Context, tenantID int64, operatorID string, ticketID uint64) (bool, error) {
	keys := []string{s.key(tenantID, operatorID)}
	n, err := clearIfScript.Run(ctx, s.client, keys, strconv.FormatUint(ticketID, 10)).Int()
	if err != nil {
		return false, errors.Wrapf(err, "failed to clear binding of %s", operatorID)
	}
	return n > 0, nil
}
