package notification

import (
	"fmt"
	"time"

	"github.com/ticketsync/ticketsync/internal/shared/biztime"
)

const MaxMessageLength = 1000

// Notification is one message about a ticket. UserID is the actor who
// caused it; receivers are tracked by UserNotification rows.
type Notification struct {
	id        uint
	ticketID  uint
	userID    uint
	message   string
	createdAt time.Time
}

func NewNotification(ticketID, actorID uint, message string) (*Notification, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if len(message) == 0 {
		return nil, fmt.Errorf("message is required")
	}
	if len(message) > MaxMessageLength {
		return nil, fmt.Errorf("message exceeds maximum length of %d characters", MaxMessageLength)
	}

	return &Notification{
		ticketID:  ticketID,
		userID:    actorID,
		message:   message,
		createdAt: biztime.NowUTC(),
	}, nil
}

func (n *Notification) ID() uint             { return n.id }
func (n *Notification) TicketID() uint       { return n.ticketID }
func (n *Notification) ActorID() uint        { return n.userID }
func (n *Notification) Message() string      { return n.message }
func (n *Notification) CreatedAt() time.Time { return n.createdAt }

func (n *Notification) SetID(id uint) error {
	if n.id != 0 {
		return fmt.Errorf("notification ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("notification ID cannot be zero")
	}
	n.id = id
	return nil
}

// UserNotification is the per-receiver fan-out of a Notification.
type UserNotification struct {
	id             uint
	notificationID uint
	receiverID     uint
	isRead         bool
}

func ReconstructUserNotification(id, notificationID, receiverID uint, isRead bool) *UserNotification {
	return &UserNotification{
		id:             id,
		notificationID: notificationID,
		receiverID:     receiverID,
		isRead:         isRead,
	}
}

func (u *UserNotification) ID() uint             { return u.id }
func (u *UserNotification) NotificationID() uint { return u.notificationID }
func (u *UserNotification) ReceiverID() uint     { return u.receiverID }
func (u *UserNotification) IsRead() bool         { return u.isRead }

func (u *UserNotification) SetID(id uint) {
	u.id = id
}

// MarkRead reports whether the row changed.
func (u *UserNotification) MarkRead() bool {
	if u.isRead {
		return false
	}
	u.isRead = true
	return true
}

// InboxItem is the read model of a UserNotification joined with its message.
type InboxItem struct {
	UserNotificationID uint
	NotificationID     uint
	TicketID           uint
	ActorID            uint
	Message            string
	IsRead             bool
	CreatedAt          time.Time
}
