package dto

import (
	"github.com/ticketsync/ticketsync/internal/domain/ticket"
	"github.com/ticketsync/ticketsync/internal/shared/biztime"
)

type TicketDTO struct {
	ID          uint   `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	WorkItemID  *int   `json:"work_item_id"`
	PlatformID  uint   `json:"platform_id"`
	CreatorID   uint   `json:"creator_id"`
	OperatorID  *uint  `json:"operator_id"`
	Version     int    `json:"version"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type EditDTO struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	Description string `json:"description"`
	OldStatus   string `json:"old_status"`
	NewStatus   string `json:"new_status"`
	CreatedAt   string `json:"created_at"`
}

type ReplyDTO struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

type TicketDetailDTO struct {
	TicketDTO
	Edits   []EditDTO  `json:"edits"`
	Replies []ReplyDTO `json:"replies"`
}

func ToTicketDTO(t *ticket.Ticket) *TicketDTO {
	if t == nil {
		return nil
	}
	return &TicketDTO{
		ID:          t.ID(),
		Type:        t.Type().String(),
		Title:       t.Title(),
		Description: t.Description(),
		Priority:    t.Priority().String(),
		Status:      t.Status().String(),
		WorkItemID:  t.WorkItemID(),
		PlatformID:  t.PlatformID(),
		CreatorID:   t.CreatorID(),
		OperatorID:  t.OperatorID(),
		Version:     t.Version(),
		CreatedAt:   biztime.FormatForDisplay(t.CreatedAt()),
		UpdatedAt:   biztime.FormatForDisplay(t.UpdatedAt()),
	}
}

func ToEditDTO(e *ticket.Edit) EditDTO {
	return EditDTO{
		ID:          e.ID(),
		UserID:      e.UserID(),
		Description: e.Description(),
		OldStatus:   e.OldStatus().String(),
		NewStatus:   e.NewStatus().String(),
		CreatedAt:   biztime.FormatForDisplay(e.CreatedAt()),
	}
}

func ToReplyDTO(r *ticket.Reply) ReplyDTO {
	return ReplyDTO{
		ID:        r.ID(),
		UserID:    r.UserID(),
		Message:   r.Message(),
		CreatedAt: biztime.FormatForDisplay(r.CreatedAt()),
	}
}

func ToTicketDetailDTO(t *ticket.Ticket, edits []*ticket.Edit, replies []*ticket.Reply) *TicketDetailDTO {
	if t == nil {
		return nil
	}
	detail := &TicketDetailDTO{
		TicketDTO: *ToTicketDTO(t),
		Edits:     make([]EditDTO, 0, len(edits)),
		Replies:   make([]ReplyDTO, 0, len(replies)),
	}
	for _, e := range edits {
		detail.Edits = append(detail.Edits, ToEditDTO(e))
	}
	for _, r := range replies {
		detail.Replies = append(detail.Replies, ToReplyDTO(r))
	}
	return detail
}
