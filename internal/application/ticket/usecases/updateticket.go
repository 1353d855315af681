package usecases

import (
	"context"
	"fmt"

	"github.com/ticketsync/ticketsync/internal/application/common"
	"github.com/ticketsync/ticketsync/internal/domain/shared/events"
	"github.com/ticketsync/ticketsync/internal/domain/ticket"
	vo "github.com/ticketsync/ticketsync/internal/domain/ticket/valueobjects"
	"github.com/ticketsync/ticketsync/internal/domain/workitem"
	"github.com/ticketsync/ticketsync/internal/shared/authorization"
	"github.com/ticketsync/ticketsync/internal/shared/errors"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
)

// UpdateTicketCommand replaces the editable state of a ticket. RequesterID
// is the person responsible for the change, which for webhook deliveries
// is not the HTTP caller. RequesterRole is the caller's role and gates
// access for API updates.
type UpdateTicketCommand struct {
	TicketID      uint
	RequesterID   uint
	RequesterRole authorization.UserRole
	Type          string
	Title         string
	Description   string
	Priority      string
	Status        string
	OperatorID    *uint
	// ExpectedVersion, when set, must equal the stored version.
	ExpectedVersion *int
	Origin          Origin
}

type UpdateTicketResult struct {
	TicketID      uint
	Status        string
	OperatorID    *uint
	Version       int
	ChangedFields []string
	TrackerSync   TrackerSync
}

type UpdateTicketUseCase struct {
	guard       *ConcurrencyGuard
	users       UserReader
	notifier    NotificationDispatcher
	audit       EditRecorder
	tracker     TrackerClient
	txManager   TransactionManager
	broadcaster events.Broadcaster
	metrics     common.MetricsRecorder
	logger      logger.Interface
}

func NewUpdateTicketUseCase(
	ticketRepo ticket.Repository,
	users UserReader,
	notifier NotificationDispatcher,
	audit EditRecorder,
	tracker TrackerClient,
	txManager TransactionManager,
	broadcaster events.Broadcaster,
	metrics common.MetricsRecorder,
	logger logger.Interface,
) *UpdateTicketUseCase {
	return &UpdateTicketUseCase{
		guard:       NewConcurrencyGuard(ticketRepo, logger),
		users:       users,
		notifier:    notifier,
		audit:       audit,
		tracker:     tracker,
		txManager:   txManager,
		broadcaster: broadcaster,
		metrics:     metrics,
		logger:      logger,
	}
}

func (uc *UpdateTicketUseCase) Execute(ctx context.Context, cmd UpdateTicketCommand) (*UpdateTicketResult, error) {
	cmd.Origin = cmd.Origin.orDefault()
	uc.logger.Infow("executing update ticket use case",
		"ticket_id", cmd.TicketID,
		"requester_id", cmd.RequesterID,
		"origin", cmd.Origin,
	)

	result, err := uc.execute(ctx, cmd)
	outcome := common.OutcomeOf(err)
	if err == nil {
		outcome = result.TrackerSync.outcome()
	}
	uc.metrics.RecordTicketOperation("update", cmd.Origin.String(), outcome)
	return result, err
}

func (uc *UpdateTicketUseCase) execute(ctx context.Context, cmd UpdateTicketCommand) (*UpdateTicketResult, error) {
	fields, err := uc.validateCommand(ctx, cmd)
	if err != nil {
		uc.logger.Errorw("invalid update ticket command", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	var (
		diff    ticket.Diff
		updated *ticket.Ticket
	)
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.guard.Mutate(txCtx, cmd.TicketID, cmd.ExpectedVersion, func(t *ticket.Ticket) (bool, error) {
			if cmd.Origin != OriginWebhook &&
				!authorization.CanAccessTicket(cmd.RequesterID, cmd.RequesterRole, t.CreatorID(), t.OperatorID()) {
				return false, errors.NewForbiddenError("you don't have permission to update this ticket")
			}
			d, err := t.Apply(fields)
			diff = d
			return !d.IsEmpty(), err
		})
		if err != nil {
			return err
		}
		updated = t

		// an update without field changes is still audited and notified
		parties := partiesOf(t)
		if err := uc.notifier.NotifyEdited(txCtx, parties, cmd.RequesterID); err != nil {
			return err
		}
		if err := uc.audit.RecordUpdate(txCtx, t.ID(), cmd.RequesterID, diff); err != nil {
			return err
		}
		if diff.OperatorChanged {
			if err := uc.notifier.NotifyOperatorChanged(txCtx, parties, diff.OldOperatorID, cmd.RequesterID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to update ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	result := &UpdateTicketResult{
		TicketID:      updated.ID(),
		Status:        updated.Status().String(),
		OperatorID:    updated.OperatorID(),
		Version:       updated.Version(),
		ChangedFields: diff.ChangedFields,
	}

	if !diff.IsEmpty() && cmd.Origin.PushesToTracker() && uc.tracker != nil && updated.HasWorkItem() {
		uc.pushToTracker(ctx, updated, diff, &result.TrackerSync)
	}

	uc.broadcaster.Broadcast(ctx, events.TopicTickets, events.TicketUpdated, events.IDPayload{ID: updated.ID()})
	uc.broadcaster.Broadcast(ctx, events.TicketTopic(updated.ID()), events.TicketUpdated, events.IDPayload{ID: updated.ID()})

	logFields := []any{
		"ticket_id", updated.ID(),
		"changed", diff.ChangedFields,
		"tracker_degraded", result.TrackerSync.Degraded(),
	}
	if diff.StatusChanged() {
		logFields = append(logFields, "old_status", diff.OldStatus, "new_status", diff.NewStatus)
	}
	uc.logger.Infow("ticket updated successfully", logFields...)
	return result, nil
}

func (uc *UpdateTicketUseCase) validateCommand(ctx context.Context, cmd UpdateTicketCommand) (ticket.Fields, error) {
	if cmd.TicketID == 0 {
		return ticket.Fields{}, errors.NewValidationError("ticket ID is required")
	}
	if cmd.RequesterID == 0 {
		return ticket.Fields{}, errors.NewValidationError("requester is required")
	}

	ticketType, err := vo.NewTicketType(cmd.Type)
	if err != nil {
		return ticket.Fields{}, errors.NewValidationError(err.Error())
	}
	priority, err := vo.NewPriority(cmd.Priority)
	if err != nil {
		return ticket.Fields{}, errors.NewValidationError(err.Error())
	}
	status, err := vo.NewTicketStatus(cmd.Status)
	if err != nil {
		return ticket.Fields{}, errors.NewValidationError(err.Error())
	}

	if cmd.OperatorID != nil && *cmd.OperatorID != 0 {
		op, err := uc.users.GetByID(ctx, *cmd.OperatorID)
		if err != nil {
			return ticket.Fields{}, fmt.Errorf("failed to load operator: %w", err)
		}
		if op == nil || !op.IsOperator() {
			return ticket.Fields{}, errors.NewValidationError("operator must be an existing operator or admin")
		}
	}

	return ticket.Fields{
		Type:        ticketType,
		Title:       cmd.Title,
		Description: cmd.Description,
		Priority:    priority,
		Status:      status,
		OperatorID:  cmd.OperatorID,
	}, nil
}

func (uc *UpdateTicketUseCase) pushToTracker(ctx context.Context, t *ticket.Ticket, diff ticket.Diff, sync *TrackerSync) {
	sync.begin()
	workItemID := *t.WorkItemID()

	if err := uc.tracker.UpdateWorkItem(ctx, workItemID, workitem.DraftFromTicket(t)); err != nil {
		uc.logger.Warnw("failed to update work item", "ticket_id", t.ID(), "work_item_id", workItemID, "error", err)
		sync.fail(err)
	}

	if !diff.OperatorChanged {
		return
	}
	email, err := operatorEmail(ctx, uc.users, t.OperatorID())
	if err == nil {
		err = uc.tracker.UpdateOperatorOnWorkItem(ctx, workItemID, email)
	}
	if err != nil {
		uc.logger.Warnw("failed to push operator to work item", "ticket_id", t.ID(), "work_item_id", workItemID, "error", err)
		sync.fail(err)
	}
}
