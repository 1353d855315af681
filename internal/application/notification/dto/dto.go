package dto

import (
	"github.com/ticketsync/ticketsync/internal/domain/notification"
	"github.com/ticketsync/ticketsync/internal/shared/biztime"
)

type InboxItemResponse struct {
	ID             uint   `json:"id"`
	NotificationID uint   `json:"notification_id"`
	TicketID       uint   `json:"ticket_id"`
	ActorID        uint   `json:"actor_id"`
	Message        string `json:"message"`
	IsRead         bool   `json:"is_read"`
	CreatedAt      string `json:"created_at"`
}

type InboxResponse struct {
	Items    []*InboxItemResponse `json:"items"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

func ToInboxItemResponse(item *notification.InboxItem) *InboxItemResponse {
	if item == nil {
		return nil
	}
	return &InboxItemResponse{
		ID:             item.UserNotificationID,
		NotificationID: item.NotificationID,
		TicketID:       item.TicketID,
		ActorID:        item.ActorID,
		Message:        item.Message,
		IsRead:         item.IsRead,
		CreatedAt:      biztime.FormatForDisplay(item.CreatedAt),
	}
}

func ToInboxItemResponses(items []*notification.InboxItem) []*InboxItemResponse {
	out := make([]*InboxItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ToInboxItemResponse(item))
	}
	return out
}
