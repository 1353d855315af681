// Package realtime pushes ticket and inbox events to connected clients over
// websockets, optionally relayed across instances through Redis.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ticketsync/ticketsync/internal/domain/shared/events"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
)

// Subscriber is one connection's outbound queue.
type Subscriber interface {
	// Enqueue must not block. It reports false when the message was dropped.
	Enqueue(msg []byte) bool
}

// Hub routes envelopes to the subscribers of their topic on this instance.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[Subscriber]struct{}
	logger logger.Interface
}

func NewHub(logger logger.Interface) *Hub {
	return &Hub{
		topics: make(map[string]map[Subscriber]struct{}),
		logger: logger,
	}
}

func (h *Hub) Subscribe(s Subscriber, topics ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, topic := range topics {
		subs, ok := h.topics[topic]
		if !ok {
			subs = make(map[Subscriber]struct{})
			h.topics[topic] = subs
		}
		subs[s] = struct{}{}
	}
}

// Unsubscribe removes s from every topic.
func (h *Hub) Unsubscribe(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for topic, subs := range h.topics {
		delete(subs, s)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
}

// SubscriberCount returns the number of subscribers of topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Broadcast delivers to local subscribers only.
func (h *Hub) Broadcast(_ context.Context, topic, event string, payload interface{}) {
	h.Deliver(events.NewEnvelope(topic, event, payload))
}

func (h *Hub) Deliver(env events.Envelope) {
	msg, err := json.Marshal(env)
	if err != nil {
		h.logger.Errorw("failed to encode realtime envelope", "topic", env.Topic, "event", env.Event, "error", err)
		return
	}
	h.deliverRaw(env.Topic, msg)
}

func (h *Hub) deliverRaw(topic string, msg []byte) {
	h.mu.RLock()
	subs := make([]Subscriber, 0, len(h.topics[topic]))
	for s := range h.topics[topic] {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		if !s.Enqueue(msg) {
			h.logger.Warnw("realtime subscriber too slow, message dropped", "topic", topic)
		}
	}
}

var _ events.Broadcaster = (*Hub)(nil)
