package mappers

import (
	"github.com/ticketsync/ticketsync/internal/domain/notification"
	"github.com/ticketsync/ticketsync/internal/infrastructure/persistence/models"
	"github.com/ticketsync/ticketsync/internal/shared/biztime"
)

func NotificationToModel(n *notification.Notification) *models.NotificationModel {
	return &models.NotificationModel{
		ID:        n.ID(),
		TicketID:  n.TicketID(),
		UserID:    n.ActorID(),
		Message:   n.Message(),
		CreatedAt: n.CreatedAt().UnixMilli(),
	}
}

func UserNotificationToDomain(model *models.UserNotificationModel) *notification.UserNotification {
	if model == nil {
		return nil
	}
	return notification.ReconstructUserNotification(model.ID, model.NotificationID, model.ReceiverID, model.IsRead)
}

func InboxRowToDomain(row *models.InboxRow) *notification.InboxItem {
	return &notification.InboxItem{
		UserNotificationID: row.UserNotificationID,
		NotificationID:     row.NotificationID,
		TicketID:           row.TicketID,
		ActorID:            row.UserID,
		Message:            row.Message,
		IsRead:             row.IsRead,
		CreatedAt:          biztime.UnixMilli(row.CreatedAt),
	}
}
