// Package redis backs the escalation wait queue and the decision event
// stream. Queue position comes from the real list length, so the wait
// estimate tracks actual backlog instead of a fixed placeholder.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/handoff-sh/handoff/internal/domain"
)

const (
	waitingKey      = "escalations:waiting"
	decisionChannel = "routing:decisions"
)

type Queue struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*Queue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &Queue{client: client}, nil
}

func (q *Queue) Close() error {
	if err := q.client.Close(); err != nil {
		return fmt.Errorf("redis.Queue.Close: %w", err)
	}
	return nil
}

// Enqueue appends the escalation and returns its 1-based queue position.
func (q *Queue) Enqueue(ctx context.Context, e domain.QueuedEscalation) (int, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("redis.Queue.Enqueue: marshal: %w", err)
	}

	length, err := q.client.RPush(ctx, waitingKey, payload).Result()
	if err != nil {
		return 0, fmt.Errorf("redis.Queue.Enqueue: %w", err)
	}
	return int(length), nil
}

func (q *Queue) Len(ctx context.Context) (int, error) {
	length, err := q.client.LLen(ctx, waitingKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis.Queue.Len: %w", err)
	}
	return int(length), nil
}

// Dequeue pops the longest-waiting escalation, or nil when the queue is
// empty.
func (q *Queue) Dequeue(ctx context.Context) (*domain.QueuedEscalation, error) {
	payload, err := q.client.LPop(ctx, waitingKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis.Queue.Dequeue: %w", err)
	}

	var e domain.QueuedEscalation
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, fmt.Errorf("redis.Queue.Dequeue: unmarshal: %w", err)
	}
	return &e, nil
}

func (q *Queue) Snapshot(ctx context.Context) ([]domain.QueuedEscalation, error) {
	payloads, err := q.client.LRange(ctx, waitingKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis.Queue.Snapshot: %w", err)
	}

	waiting := make([]domain.QueuedEscalation, 0, len(payloads))
	for _, payload := range payloads {
		var e domain.QueuedEscalation
		if err := json.Unmarshal([]byte(payload), &e); err != nil {
			return nil, fmt.Errorf("redis.Queue.Snapshot: unmarshal: %w", err)
		}
		waiting = append(waiting, e)
	}
	return waiting, nil
}

// PublishDecision fans a committed routing decision out to subscribers.
func (q *Queue) PublishDecision(ctx context.Context, d *domain.RoutingDecision) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("redis.Queue.PublishDecision: marshal: %w", err)
	}
	if err := q.client.Publish(ctx, decisionChannel, payload).Err(); err != nil {
		return fmt.Errorf("redis.Queue.PublishDecision: %w", err)
	}
	return nil
}

// SubscribeDecisions streams decision events until ctx is cancelled. The
// returned cleanup closes the underlying subscription.
func (q *Queue) SubscribeDecisions(ctx context.Context) (<-chan []byte, func(), error) {
	sub := q.client.Subscribe(ctx, decisionChannel)

	// Wait for subscription confirmation.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.Queue.SubscribeDecisions: receive confirmation: %w", err)
	}

	out := make(chan []byte, 64)
	redisCh := sub.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-redisCh:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	cleanup := func() {
		_ = sub.Close()
	}

	return out, cleanup, nil
}
