package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SpaNb4/open-chat/pkg/events"
)

// Redis key layout:
// {key}:order   ZSET<user_id>  score = join time in unix nanoseconds
// {key}:names   HASH           user_id -> username

// redisStore implements RosterStore on Redis so every instance sees the
// same roster.
type redisStore struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

// NewRedisStore creates a roster under key using an existing client. The
// store does not own the client.
func NewRedisStore(client *redis.Client, key string) RosterStore {
	if key == "" {
		key = "chat:roster"
	}
	return &redisStore{client: client, key: key, now: time.Now}
}

func (s *redisStore) orderKey() string { return s.key + ":order" }
func (s *redisStore) namesKey() string { return s.key + ":names" }

func (s *redisStore) Add(ctx context.Context, user events.User) error {
	pipe := s.client.TxPipeline()
	pipe.ZAddNX(ctx, s.orderKey(), redis.Z{Score: float64(s.now().UnixNano()), Member: user.UserID})
	pipe.HSet(ctx, s.namesKey(), user.UserID, user.Username)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to add %s to roster: %w", user.UserID, err)
	}
	return nil
}

func (s *redisStore) Remove(ctx context.Context, userID string) (events.User, bool, error) {
	username, err := s.client.HGet(ctx, s.namesKey(), userID).Result()
	if errors.Is(err, redis.Nil) {
		return events.User{}, false, nil
	}
	if err != nil {
		return events.User{}, false, fmt.Errorf("failed to look up %s: %w", userID, err)
	}

	pipe := s.client.TxPipeline()
	pipe.ZRem(ctx, s.orderKey(), userID)
	pipe.HDel(ctx, s.namesKey(), userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return events.User{}, false, fmt.Errorf("failed to remove %s from roster: %w", userID, err)
	}
	return events.User{UserID: userID, Username: username}, true, nil
}

func (s *redisStore) List(ctx context.Context) ([]events.User, error) {
	ids, err := s.client.ZRange(ctx, s.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	if len(ids) == 0 {
		return []events.User{}, nil
	}

	names, err := s.client.HMGet(ctx, s.namesKey(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load roster names: %w", err)
	}

	users := make([]events.User, 0, len(ids))
	for i, id := range ids {
		name, ok := names[i].(string)
		if !ok {
			// Removed between the two reads.
			continue
		}
		users = append(users, events.User{UserID: id, Username: name})
	}
	return users, nil
}

func (s *redisStore) HasUsername(ctx context.Context, username string) (bool, error) {
	names, err := s.client.HVals(ctx, s.namesKey()).Result()
	if err != nil {
		return false, fmt.Errorf("failed to read roster names: %w", err)
	}
	for _, n := range names {
		if n == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *redisStore) Close() error { return nil }
