package mappers

import (
	"fmt"

	"github.com/ticketsync/ticketsync/internal/domain/ticket"
	vo "github.com/ticketsync/ticketsync/internal/domain/ticket/valueobjects"
	"github.com/ticketsync/ticketsync/internal/infrastructure/persistence/models"
	"github.com/ticketsync/ticketsync/internal/shared/biztime"
)

// TicketMapper converts tickets and their child records between the domain
// and persistence models.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)
	EditToModel(e *ticket.Edit) *models.TicketEditModel
	EditToDomain(model *models.TicketEditModel) *ticket.Edit
	ReplyToModel(r *ticket.Reply) *models.TicketReplyModel
	ReplyToDomain(model *models.TicketReplyModel) *ticket.Reply
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	return &models.TicketModel{
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
		CreatedAt:   t.CreatedAt().UnixMilli(),
		UpdatedAt:   t.UpdatedAt().UnixMilli(),
	}
}

func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	if model == nil {
		return nil, nil
	}

	t, err := ticket.ReconstructTicket(
		model.ID,
		vo.TicketType(model.Type),
		model.Title,
		model.Description,
		vo.Priority(model.Priority),
		vo.TicketStatus(model.Status),
		model.WorkItemID,
		model.PlatformID,
		model.CreatorID,
		model.OperatorID,
		model.Version,
		biztime.UnixMilli(model.CreatedAt),
		biztime.UnixMilli(model.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct ticket (id=%d): %w", model.ID, err)
	}
	return t, nil
}

func (m *TicketMapperImpl) EditToModel(e *ticket.Edit) *models.TicketEditModel {
	return &models.TicketEditModel{
		ID:          e.ID(),
		TicketID:    e.TicketID(),
		UserID:      e.UserID(),
		Description: e.Description(),
		OldStatus:   e.OldStatus().String(),
		NewStatus:   e.NewStatus().String(),
		CreatedAt:   e.CreatedAt().UnixMilli(),
	}
}

func (m *TicketMapperImpl) EditToDomain(model *models.TicketEditModel) *ticket.Edit {
	return ticket.ReconstructEdit(
		model.ID,
		model.TicketID,
		model.UserID,
		model.Description,
		vo.TicketStatus(model.OldStatus),
		vo.TicketStatus(model.NewStatus),
		biztime.UnixMilli(model.CreatedAt),
	)
}

func (m *TicketMapperImpl) ReplyToModel(r *ticket.Reply) *models.TicketReplyModel {
	return &models.TicketReplyModel{
		ID:        r.ID(),
		TicketID:  r.TicketID(),
		UserID:    r.UserID(),
		Message:   r.Message(),
		CreatedAt: r.CreatedAt().UnixMilli(),
	}
}

func (m *TicketMapperImpl) ReplyToDomain(model *models.TicketReplyModel) *ticket.Reply {
	return ticket.ReconstructReply(model.ID, model.TicketID, model.UserID, model.Message, biztime.UnixMilli(model.CreatedAt))
}
