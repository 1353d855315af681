package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ticketsync/ticketsync/internal/domain/notification"
	"github.com/ticketsync/ticketsync/internal/infrastructure/persistence/mappers"
	"github.com/ticketsync/ticketsync/internal/infrastructure/persistence/models"
	"github.com/ticketsync/ticketsync/internal/shared/constants"
	"github.com/ticketsync/ticketsync/internal/shared/db"
)

const inboxColumns = "un.id AS user_notification_id, n.id AS notification_id, n.ticket_id, n.user_id, n.message, un.is_read, n.created_at"

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateWithRecipients(ctx context.Context, n *notification.Notification, receiverIDs []uint) ([]*notification.UserNotification, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	model := mappers.NotificationToModel(n)
	if err := tx.Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	if err := n.SetID(model.ID); err != nil {
		return nil, fmt.Errorf("failed to set notification ID: %w", err)
	}

	if len(receiverIDs) == 0 {
		return nil, nil
	}

	rows := make([]*models.UserNotificationModel, 0, len(receiverIDs))
	for _, receiverID := range receiverIDs {
		rows = append(rows, &models.UserNotificationModel{NotificationID: model.ID, ReceiverID: receiverID})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to create user notifications: %w", err)
	}

	out := make([]*notification.UserNotification, 0, len(rows))
	for _, row := range rows {
		out = append(out, mappers.UserNotificationToDomain(row))
	}
	return out, nil
}

func (r *NotificationRepository) GetUserNotification(ctx context.Context, id uint) (*notification.UserNotification, error) {
	var model models.UserNotificationModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user notification: %w", err)
	}
	return mappers.UserNotificationToDomain(&model), nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uint) error {
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserNotificationModel{}).
		Where("id = ?", id).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (r *NotificationRepository) inbox(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db).
		Table(constants.TableUserNotifications + " AS un").
		Joins("JOIN " + constants.TableNotifications + " AS n ON n.id = un.notification_id")
}

// ListInbox returns the receiver's notifications, newest first.
func (r *NotificationRepository) ListInbox(ctx context.Context, receiverID uint, limit, offset int) ([]*notification.InboxItem, int64, error) {
	var total int64
	if err := r.inbox(ctx).Where("un.receiver_id = ?", receiverID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count inbox: %w", err)
	}

	query := r.inbox(ctx).
		Select(inboxColumns).
		Where("un.receiver_id = ?", receiverID).
		Order("n.created_at DESC").Order("un.id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.InboxRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list inbox: %w", err)
	}

	items := make([]*notification.InboxItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, mappers.InboxRowToDomain(row))
	}
	return items, total, nil
}

func (r *NotificationRepository) ListUserNotificationsByTicket(ctx context.Context, ticketID uint) ([]*notification.UserNotification, error) {
	var list []*models.UserNotificationModel
	err := r.inbox(ctx).
		Select("un.*").
		Where("n.ticket_id = ?", ticketID).
		Order("un.id ASC").
		Scan(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user notifications by ticket: %w", err)
	}

	out := make([]*notification.UserNotification, 0, len(list))
	for _, m := range list {
		out = append(out, mappers.UserNotificationToDomain(m))
	}
	return out, nil
}

func (r *NotificationRepository) DeleteByTicket(ctx context.Context, ticketID uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	ids := tx.Model(&models.NotificationModel{}).Select("id").Scopes(db.ByTicket(ticketID))
	if err := tx.Where("notification_id IN (?)", ids).Delete(&models.UserNotificationModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete user notifications: %w", err)
	}
	if err := tx.Scopes(db.ByTicket(ticketID)).Delete(&models.NotificationModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete notifications: %w", err)
	}
	return nil
}
