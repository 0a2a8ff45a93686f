package queue

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps participant queues as Redis lists so they survive engine
// restarts and stay visible to every instance.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func queueKey(roomID, participantID uuid.UUID) string {
	return fmt.Sprintf("draftroom:queue:%s:%s", roomID, participantID)
}

// Replace swaps the queue atomically: delete and repopulate inside a
// transaction pipeline.
func (s *RedisStore) Replace(ctx context.Context, roomID, participantID uuid.UUID, playerIDs []uuid.UUID) error {
	key := queueKey(roomID, participantID)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(playerIDs) > 0 {
		vals := make([]interface{}, len(playerIDs))
		for i, id := range playerIDs {
			vals[i] = id.String()
		}
		pipe.RPush(ctx, key, vals...)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("replace queue: %w", err)
	}
	return nil
}

// List returns the queue in priority order. A missing key is an empty
// queue, not an error.
func (s *RedisStore) List(ctx context.Context, roomID, participantID uuid.UUID) ([]uuid.UUID, error) {
	vals, err := s.client.LRange(ctx, queueKey(roomID, participantID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}

	out := make([]uuid.UUID, 0, len(vals))
	for _, v := range vals {
		id, err := uuid.Parse(v)
		if err != nil {
			continue // skip corrupt entries
		}
		out = append(out, id)
	}
	return out, nil
}
