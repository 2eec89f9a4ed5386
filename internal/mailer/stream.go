package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventMailRequested is the event type written to the outbox stream.
const EventMailRequested = "mail.requested"

type outboxEvent struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      Message   `json:"data"`
}

// StreamSender appends messages to a Redis stream that the mail worker consumes.
type StreamSender struct {
	client *redis.Client
	stream string
}

func NewStreamSender(client *redis.Client, stream string) *StreamSender {
	return &StreamSender{client: client, stream: stream}
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func (s *StreamSender) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(outboxEvent{
		Type:      EventMailRequested,
		Timestamp: time.Now().UTC(),
		Data:      msg,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal mail event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{"event": payload},
	}
	if _, err := s.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to queue mail: %w", err)
	}
	return nil
}
