package notification

import "context"

type Repository interface {
	// CreateWithRecipients stores n and one unread UserNotification per
	// receiver. receiverIDs must already be deduplicated.
	CreateWithRecipients(ctx context.Context, n *Notification, receiverIDs []uint) ([]*UserNotification, error)
	GetUserNotification(ctx context.Context, id uint) (*UserNotification, error)
	MarkRead(ctx context.Context, id uint) error
	ListInbox(ctx context.Context, receiverID uint, limit, offset int) ([]*InboxItem, int64, error)
	ListUserNotificationsByTicket(ctx context.Context, ticketID uint) ([]*UserNotification, error)
	DeleteByTicket(ctx context.Context, ticketID uint) error
}
