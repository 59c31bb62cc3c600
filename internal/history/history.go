// internal/history/history.go
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list the engine publishes match actions to
// and the historian consumes from.
const DefaultQueueName = "deberts_actions"

// ActionRecord is one engine transition as it travels through the queue.
type ActionRecord struct {
	MatchID     uuid.UUID              `json:"match_id"`
	ActionIndex int                    `json:"action_index"`
	ActorID     uuid.UUID              `json:"actor_id"`
	ActionType  string                 `json:"action_type"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	Timestamp   int64                  `json:"timestamp"` // epoch millis
}

// Publisher pushes action records onto the historian queue. A nil
// Publisher is valid and drops everything, so gameplay never depends on
// Redis being reachable.
type Publisher struct {
	rdb   *redis.Client
	queue string
}

// Connect builds a Publisher from environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
//   - HISTORIAN_QUEUE_NAME (default DefaultQueueName)
func Connect() (*Publisher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: GetEnv("REDIS_ADDR", "localhost:6379"),
		DB:   GetEnvInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Publisher{
		rdb:   rdb,
		queue: GetEnv("HISTORIAN_QUEUE_NAME", DefaultQueueName),
	}, nil
}

// Publish serializes the record and pushes it onto the queue.
func (p *Publisher) Publish(ctx context.Context, rec ActionRecord) error {
	if p == nil || p.rdb == nil {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal ActionRecord: %w", err)
	}
	if err := p.rdb.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to %q: %w", p.queue, err)
	}
	return nil
}

// Close releases the underlying Redis client.
func (p *Publisher) Close() error {
	if p == nil || p.rdb == nil {
		return nil
	}
	return p.rdb.Close()
}

// GetEnv reads an environment variable or returns a default value.
func GetEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// GetEnvInt parses an environment variable as an integer, else a default.
func GetEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
