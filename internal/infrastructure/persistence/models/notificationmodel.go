package models

import "github.com/ticketsync/ticketsync/internal/shared/constants"

type NotificationModel struct {
	ID        uint   `gorm:"primaryKey"`
	TicketID  uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null"`
	Message   string `gorm:"type:text;not null"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null"`
}

func (NotificationModel) TableName() string {
	return constants.TableNotifications
}

// UserNotificationModel holds one row per receiver per notification.
type UserNotificationModel struct {
	ID             uint `gorm:"primaryKey"`
	NotificationID uint `gorm:"not null;uniqueIndex:idx_notification_receiver,priority:1"`
	ReceiverID     uint `gorm:"not null;uniqueIndex:idx_notification_receiver,priority:2;index:idx_receiver_read,priority:1"`
	IsRead         bool `gorm:"not null;default:false;index:idx_receiver_read,priority:2"`
}

func (UserNotificationModel) TableName() string {
	return constants.TableUserNotifications
}

// InboxRow is the scan target of the inbox join.
type InboxRow struct {
	UserNotificationID uint
	NotificationID     uint
	TicketID           uint
	UserID             uint
	Message            string
	IsRead             bool
	CreatedAt          int64
}
