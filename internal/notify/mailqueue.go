// Package notify writes mail documents onto the append-only delivery queue.
// Delivery itself is external; see cmd/mail-worker for the reference drainer.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const mailKey = "medischedule:mail"

var ErrQueueEmpty = errors.New("mail queue empty")

type Message struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Document is the queued mail shape: recipients, message, enqueue timestamp.
type Document struct {
	To        []string  `json:"to"`
	Message   Message   `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type Queue interface {
	Enqueue(ctx context.Context, doc Document) error
}

type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

func (q *RedisQueue) Enqueue(ctx context.Context, doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal mail document: %w", err)
	}
	if err := q.client.RPush(ctx, mailKey, raw).Err(); err != nil {
		return fmt.Errorf("enqueue mail document: %w", err)
	}
	return nil
}

// Dequeue pops the oldest document. Used by the mail worker only.
func (q *RedisQueue) Dequeue(ctx context.Context) (*Document, error) {
	raw, err := q.client.LPop(ctx, mailKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrQueueEmpty
		}
		return nil, fmt.Errorf("dequeue mail document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode mail document: %w", err)
	}
	return &doc, nil
}

// Requeue puts a document back at the head after a failed delivery.
func (q *RedisQueue) Requeue(ctx context.Context, doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal mail document: %w", err)
	}
	if err := q.client.LPush(ctx, mailKey, raw).Err(); err != nil {
		return fmt.Errorf("requeue mail document: %w", err)
	}
	return nil
}
