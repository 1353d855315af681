package usecases

import (
	"context"

	"github.com/ticketsync/ticketsync/internal/application/ticket/dto"
	"github.com/ticketsync/ticketsync/internal/domain/ticket"
	"github.com/ticketsync/ticketsync/internal/shared/authorization"
	"github.com/ticketsync/ticketsync/internal/shared/errors"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
)

type GetTicketQuery struct {
	TicketID uint
	UserID   uint
	UserRole authorization.UserRole
}

type GetTicketUseCase struct {
	ticketRepo ticket.Repository
	editRepo   ticket.EditRepository
	replyRepo  ticket.ReplyRepository
	logger     logger.Interface
}

func NewGetTicketUseCase(
	ticketRepo ticket.Repository,
	editRepo ticket.EditRepository,
	replyRepo ticket.ReplyRepository,
	logger logger.Interface,
) *GetTicketUseCase {
	return &GetTicketUseCase{
		ticketRepo: ticketRepo,
		editRepo:   editRepo,
		replyRepo:  replyRepo,
		logger:     logger,
	}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDetailDTO, error) {
	t, err := uc.ticketRepo.GetByID(ctx, query.TicketID)
	if err != nil {
		uc.logger.Errorw("failed to get ticket", "ticket_id", query.TicketID, "error", err)
		return nil, errors.NewInternalError("failed to get ticket")
	}
	if t == nil {
		return nil, errors.NewNotFoundError("ticket not found")
	}

	if !authorization.CanAccessTicket(query.UserID, query.UserRole, t.CreatorID(), t.OperatorID()) {
		uc.logger.Warnw("unauthorized ticket access", "ticket_id", query.TicketID, "user_id", query.UserID)
		return nil, errors.NewForbiddenError("you don't have permission to view this ticket")
	}

	edits, err := uc.editRepo.ListByTicket(ctx, t.ID())
	if err != nil {
		uc.logger.Errorw("failed to list edits", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("failed to get ticket")
	}
	replies, err := uc.replyRepo.ListByTicket(ctx, t.ID())
	if err != nil {
		uc.logger.Errorw("failed to list replies", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("failed to get ticket")
	}

	return dto.ToTicketDetailDTO(t, edits, replies), nil
}
