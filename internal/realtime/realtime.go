// Package realtime fans out tabu.Progress snapshots to subscribers over
// Redis pub/sub, so an HTTP handler can stream a running solve's progress
// via server-sent events without holding a direct reference to the Engine.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/paiban/horario/internal/config"
	"github.com/paiban/horario/pkg/tabu"
)

// NewRedis returns a configured go-redis client, pinged once to fail fast
// on a bad address.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func channelFor(runID uuid.UUID) string {
	return fmt.Sprintf("horario:progress:%s", runID)
}

// Publisher publishes tabu.Progress snapshots for one run to its Redis
// channel. It implements tabu.Observer.OnProgress's signature via Publish.
type Publisher struct {
	client *redis.Client
	runID  uuid.UUID
}

// NewPublisher builds a Publisher bound to a single run.
func NewPublisher(client *redis.Client, runID uuid.UUID) *Publisher {
	return &Publisher{client: client, runID: runID}
}

// Publish serializes and publishes one Progress snapshot. Errors are
// swallowed: a dropped progress update must never abort the solve.
func (p *Publisher) Publish(progress tabu.Progress) {
	if p == nil || p.client == nil {
		return
	}
	payload, err := json.Marshal(progress)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = p.client.Publish(ctx, channelFor(p.runID), payload).Err()
}

// Subscriber reads progress snapshots for a run until its context is
// cancelled or the channel is closed.
type Subscriber struct {
	sub *redis.PubSub
}

// Subscribe opens a subscription to runID's progress channel.
func Subscribe(ctx context.Context, client *redis.Client, runID uuid.UUID) *Subscriber {
	return &Subscriber{sub: client.Subscribe(ctx, channelFor(runID))}
}

// Next blocks for the next Progress snapshot, or returns an error when the
// context is cancelled or the subscription closes.
func (s *Subscriber) Next(ctx context.Context) (tabu.Progress, error) {
	msg, err := s.sub.ReceiveMessage(ctx)
	if err != nil {
		return tabu.Progress{}, err
	}
	var progress tabu.Progress
	if err := json.Unmarshal([]byte(msg.Payload), &progress); err != nil {
		return tabu.Progress{}, err
	}
	return progress, nil
}

// Close releases the subscription.
func (s *Subscriber) Close() error {
	return s.sub.Close()
}
