package stream

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"
)

// Publisher is the write side of a stream as seen by the create paths.
type Publisher[T any] interface {
	Publish(ctx context.Context, v T) error
}

// PubSub is a message broker shared by every replica.
type PubSub interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

type localPublisher[T any] struct {
	hub *Hub[T]
}

// Local returns a Publisher that writes straight into hub.
func Local[T any](hub *Hub[T]) Publisher[T] {
	return localPublisher[T]{hub: hub}
}

func (p localPublisher[T]) Publish(_ context.Context, v T) error {
	p.hub.Publish(v)
	return nil
}

// Relay forwards published values through a broker so that the hub of every
// replica, including the publishing one, receives each value exactly once.
type Relay[T any] struct {
	hub     *Hub[T]
	pubsub  PubSub
	channel string
	log     *slog.Logger

	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// NewRelay creates a relay between hub and the broker channel.
func NewRelay[T any](hub *Hub[T], pubsub PubSub, channel string, logger *slog.Logger) *Relay[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay[T]{
		hub:            hub,
		pubsub:         pubsub,
		channel:        channel,
		log:            logger.With("stream", hub.Name(), "channel", channel),
		initialBackoff: 500 * time.Millisecond,
		maxBackoff:     30 * time.Second,
	}
}

// Publish sends v to the broker. The local hub receives it through Run.
func (r *Relay[T]) Publish(ctx context.Context, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := r.pubsub.Publish(ctx, r.channel, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", r.channel, err)
	}
	return nil
}

// Run feeds broker messages into the hub until ctx is done, resubscribing
// with capped backoff whenever the subscription is lost.
func (r *Relay[T]) Run(ctx context.Context) error {
	backoff := r.initialBackoff
	for {
		msgs, err := r.pubsub.Subscribe(ctx, r.channel)
		if err == nil {
			r.log.Info("Relay subscribed")
			backoff = r.initialBackoff
			r.consume(ctx, msgs)
		} else {
			r.log.Warn("Relay subscribe failed", "error", err)
		}

		if ctx.Err() != nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > r.maxBackoff {
			backoff = r.maxBackoff
		}
	}
}

func (r *Relay[T]) consume(ctx context.Context, msgs <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-msgs:
			if !ok {
				r.log.Warn("Relay channel closed")
				return
			}
			var v T
			if err := json.Unmarshal(payload, &v); err != nil {
				r.log.Error("Dropping malformed relay message", "error", err)
				continue
			}
			r.hub.Publish(v)
		}
	}
}
