// Package events names the real-time notifications pushed to connected
// clients and the topics they are published on.
package events

import (
	"context"
	"fmt"
	"time"
)

// Event names.
const (
	TicketCreated           = "TicketCreated"
	TicketUpdated           = "TicketUpdated"
	TicketDeleted           = "TicketDeleted"
	ReplyCreated            = "ReplyCreated"
	UserNotificationCreated = "UserNotificationCreated"
	UserNotificationUpdated = "UserNotificationUpdated"
	UserNotificationDeleted = "UserNotificationDeleted"
)

// TopicTickets carries every ticket list change.
const TopicTickets = "tickets"

func TicketTopic(ticketID uint) string {
	return fmt.Sprintf("ticket:%d", ticketID)
}

func UserTopic(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// Envelope is the wire form of a broadcast.
type Envelope struct {
	Event     string      `json:"event"`
	Topic     string      `json:"topic"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func NewEnvelope(topic, event string, payload interface{}) Envelope {
	return Envelope{
		Event:     event,
		Topic:     topic,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}
}

// IDPayload is the minimal payload of most events.
type IDPayload struct {
	ID uint `json:"id"`
}

// Broadcaster publishes to a topic. Delivery is best effort; failures are
// logged by the implementation and never reported to the caller.
type Broadcaster interface {
	Broadcast(ctx context.Context, topic, event string, payload interface{})
}

// NoopBroadcaster drops everything.
type NoopBroadcaster struct{}

func (NoopBroadcaster) Broadcast(context.Context, string, string, interface{}) {}

// UserNotificationPayload is sent on a receiver's topic.
type UserNotificationPayload struct {
	ID             uint   `json:"id"`
	NotificationID uint   `json:"notification_id"`
	TicketID       uint   `json:"ticket_id,omitempty"`
	Message        string `json:"message,omitempty"`
	IsRead         bool   `json:"is_read"`
}
