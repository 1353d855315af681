package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/ticketsync/ticketsync/internal/domain/ticket"
	vo "github.com/ticketsync/ticketsync/internal/domain/ticket/valueobjects"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
)

// AuditTrail writes Edit rows. One update produces exactly one row, which
// lists every changed field including the operator.
type AuditTrail struct {
	repo   ticket.EditRepository
	logger logger.Interface
}

func NewAuditTrail(repo ticket.EditRepository, logger logger.Interface) *AuditTrail {
	return &AuditTrail{
		repo:   repo,
		logger: logger,
	}
}

func (a *AuditTrail) RecordCreated(ctx context.Context, t *ticket.Ticket, actorID uint) error {
	desc := "Ticket created"
	if t.OperatorID() != nil {
		desc = fmt.Sprintf("Ticket created and assigned to user #%d", *t.OperatorID())
	}
	return a.record(ctx, t.ID(), actorID, desc, vo.StatusUnassigned, t.Status())
}

func (a *AuditTrail) RecordUpdate(ctx context.Context, ticketID, actorID uint, diff ticket.Diff) error {
	desc := "Ticket updated without field changes"
	if !diff.IsEmpty() {
		desc = "Ticket updated: " + strings.Join(diff.ChangedFields, ", ")
	}
	return a.record(ctx, ticketID, actorID, desc, diff.OldStatus, diff.NewStatus)
}

func (a *AuditTrail) RecordReply(ctx context.Context, ticketID, actorID uint, oldStatus, newStatus vo.TicketStatus) error {
	return a.record(ctx, ticketID, actorID, "Reply posted", oldStatus, newStatus)
}

func (a *AuditTrail) record(ctx context.Context, ticketID, actorID uint, desc string, oldStatus, newStatus vo.TicketStatus) error {
	edit, err := ticket.NewEdit(ticketID, actorID, desc, oldStatus, newStatus)
	if err != nil {
		return fmt.Errorf("failed to build edit: %w", err)
	}
	if err := a.repo.Create(ctx, edit); err != nil {
		a.logger.Errorw("failed to record edit", "ticket_id", ticketID, "error", err)
		return fmt.Errorf("failed to record edit: %w", err)
	}
	return nil
}
