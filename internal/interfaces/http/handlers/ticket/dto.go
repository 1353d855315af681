package ticket

import (
	"time"

	"github.com/ticketsync/ticketsync/internal/application/ticket/usecases"
	"github.com/ticketsync/ticketsync/internal/shared/authorization"
	"github.com/ticketsync/ticketsync/internal/shared/biztime"
)

// CreateTicketRequest carries no requester: the caller is the requester.
type CreateTicketRequest struct {
	Type        string `json:"type" validate:"required"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=20000"`
	Priority    string `json:"priority" validate:"required"`
	PlatformID  uint   `json:"platform_id" validate:"required,gt=0"`
	RequesterID *uint  `json:"requester_id,omitempty"`
}

func (r *CreateTicketRequest) ToCommand(creatorID uint) usecases.CreateTicketCommand {
	return usecases.CreateTicketCommand{
		Type:        r.Type,
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		PlatformID:  r.PlatformID,
		CreatorID:   creatorID,
		Origin:      usecases.OriginAPI,
	}
}

// UpdateTicketRequest replaces the editable fields. RequesterID names the
// acting user and must match the caller.
type UpdateTicketRequest struct {
	RequesterID uint   `json:"requester_id" validate:"required,gt=0"`
	Type        string `json:"type" validate:"required"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=20000"`
	Priority    string `json:"priority" validate:"required"`
	Status      string `json:"status" validate:"required"`
	OperatorID  *uint  `json:"operator_id"`
	Version     *int   `json:"version,omitempty"`
}

func (r *UpdateTicketRequest) ToCommand(ticketID uint, callerRole authorization.UserRole) usecases.UpdateTicketCommand {
	return usecases.UpdateTicketCommand{
		TicketID:        ticketID,
		RequesterID:     r.RequesterID,
		RequesterRole:   callerRole,
		Type:            r.Type,
		Title:           r.Title,
		Description:     r.Description,
		Priority:        r.Priority,
		Status:          r.Status,
		OperatorID:      r.OperatorID,
		ExpectedVersion: r.Version,
		Origin:          usecases.OriginAPI,
	}
}

type AddReplyRequest struct {
	Message         string   `json:"message" validate:"required,max=20000"`
	AttachmentPaths []string `json:"attachment_paths" validate:"max=20,dive,required"`
}

type CreateTicketResponse struct {
	ID            uint   `json:"id"`
	Status        string `json:"status"`
	OperatorID    *uint  `json:"operator_id"`
	WorkItemID    *int   `json:"work_item_id"`
	Version       int    `json:"version"`
	CreatedAt     string `json:"created_at"`
	TrackerSynced bool   `json:"tracker_synced"`
	TrackerError  string `json:"tracker_error,omitempty"`
}

func toCreateTicketResponse(r *usecases.CreateTicketResult) *CreateTicketResponse {
	return &CreateTicketResponse{
		ID:            r.TicketID,
		Status:        r.Status,
		OperatorID:    r.OperatorID,
		WorkItemID:    r.WorkItemID,
		Version:       r.Version,
		CreatedAt:     formatTime(r.CreatedAt),
		TrackerSynced: !r.TrackerSync.Degraded(),
		TrackerError:  r.TrackerSync.Error,
	}
}

type AddReplyResponse struct {
	ID            uint   `json:"id"`
	TicketID      uint   `json:"ticket_id"`
	Status        string `json:"status"`
	Version       int    `json:"version"`
	TrackerSynced bool   `json:"tracker_synced"`
	TrackerError  string `json:"tracker_error,omitempty"`
}

func toAddReplyResponse(r *usecases.AddReplyResult) *AddReplyResponse {
	return &AddReplyResponse{
		ID:            r.ReplyID,
		TicketID:      r.TicketID,
		Status:        r.Status,
		Version:       r.Version,
		TrackerSynced: !r.TrackerSync.Degraded(),
		TrackerError:  r.TrackerSync.Error,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return biztime.FormatForDisplay(t)
}
