package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ticketsync/ticketsync/internal/domain/shared/events"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
)

const realtimeChannel = "ticketsync:realtime"

// relayMessage is the Redis wire form of an envelope.
type relayMessage struct {
	InstanceID string           `json:"instance_id"`
	Envelope   *events.Envelope `json:"envelope"`
}

// RedisBroadcaster delivers to the local hub and publishes to Redis so that
// other instances deliver to theirs. Messages published by this instance
// are skipped on receipt.
type RedisBroadcaster struct {
	client     *redis.Client
	hub        *Hub
	instanceID string
	logger     logger.Interface
}

func NewRedisBroadcaster(client *redis.Client, hub *Hub, logger logger.Interface) *RedisBroadcaster {
	return &RedisBroadcaster{
		client:     client,
		hub:        hub,
		instanceID: uuid.NewString(),
		logger:     logger,
	}
}

// Broadcast never fails the caller. A publish error only costs remote
// subscribers the event.
func (b *RedisBroadcaster) Broadcast(ctx context.Context, topic, event string, payload interface{}) {
	env := events.NewEnvelope(topic, event, payload)
	b.hub.Deliver(env)

	data, err := json.Marshal(relayMessage{InstanceID: b.instanceID, Envelope: &env})
	if err != nil {
		b.logger.Errorw("failed to encode realtime relay message", "topic", topic, "event", event, "error", err)
		return
	}
	if err := b.client.Publish(ctx, realtimeChannel, data).Err(); err != nil {
		b.logger.Warnw("failed to publish realtime event", "topic", topic, "event", event, "error", err)
	}
}

// Run relays remote events to the local hub until ctx is done.
func (b *RedisBroadcaster) Run(ctx context.Context) error {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := b.subscribe(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warnw("realtime subscription disconnected, reconnecting", "error", err, "backoff", backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

func (b *RedisBroadcaster) subscribe(ctx context.Context) error {
	pubsub := b.client.Subscribe(ctx, realtimeChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", realtimeChannel, err)
	}
	b.logger.Infow("subscribed to realtime channel", "channel", realtimeChannel, "instance_id", b.instanceID)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("channel %s closed", realtimeChannel)
			}
			b.handle(msg.Payload)
		}
	}
}

func (b *RedisBroadcaster) handle(payload string) {
	var msg relayMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil || msg.Envelope == nil {
		b.logger.Warnw("failed to decode realtime relay message", "error", err)
		return
	}
	if msg.InstanceID == b.instanceID {
		return
	}
	b.hub.Deliver(*msg.Envelope)
}

var _ events.Broadcaster = (*RedisBroadcaster)(nil)
