package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/ticketsync/ticketsync/internal/application/common"
	"github.com/ticketsync/ticketsync/internal/domain/shared/events"
	"github.com/ticketsync/ticketsync/internal/domain/ticket"
	vo "github.com/ticketsync/ticketsync/internal/domain/ticket/valueobjects"
	"github.com/ticketsync/ticketsync/internal/domain/workitem"
	"github.com/ticketsync/ticketsync/internal/shared/errors"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
)

type CreateTicketCommand struct {
	Type        string
	Title       string
	Description string
	Priority    string
	PlatformID  uint
	CreatorID   uint
	// CreatedAt defaults to now.
	CreatedAt time.Time
	// WorkItemID links the ticket at creation; set by the webhook path.
	WorkItemID *int
	Origin     Origin
}

type CreateTicketResult struct {
	TicketID    uint
	Status      string
	OperatorID  *uint
	WorkItemID  *int
	Version     int
	CreatedAt   time.Time
	TrackerSync TrackerSync
}

type CreateTicketUseCase struct {
	ticketRepo  ticket.Repository
	platforms   PlatformReader
	users       UserReader
	guard       *ConcurrencyGuard
	notifier    NotificationDispatcher
	audit       EditRecorder
	tracker     TrackerClient
	txManager   TransactionManager
	broadcaster events.Broadcaster
	metrics     common.MetricsRecorder
	logger      logger.Interface
}

func NewCreateTicketUseCase(
	ticketRepo ticket.Repository,
	platforms PlatformReader,
	users UserReader,
	notifier NotificationDispatcher,
	audit EditRecorder,
	tracker TrackerClient,
	txManager TransactionManager,
	broadcaster events.Broadcaster,
	metrics common.MetricsRecorder,
	logger logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		ticketRepo:  ticketRepo,
		platforms:   platforms,
		users:       users,
		guard:       NewConcurrencyGuard(ticketRepo, logger),
		notifier:    notifier,
		audit:       audit,
		tracker:     tracker,
		txManager:   txManager,
		broadcaster: broadcaster,
		metrics:     metrics,
		logger:      logger,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error) {
	cmd.Origin = cmd.Origin.orDefault()
	uc.logger.Infow("executing create ticket use case",
		"title", cmd.Title,
		"creator_id", cmd.CreatorID,
		"platform_id", cmd.PlatformID,
		"origin", cmd.Origin,
	)

	result, err := uc.execute(ctx, cmd)
	outcome := common.OutcomeOf(err)
	if err == nil {
		outcome = result.TrackerSync.outcome()
	}
	uc.metrics.RecordTicketOperation("create", cmd.Origin.String(), outcome)
	return result, err
}

func (uc *CreateTicketUseCase) execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error) {
	newTicket, err := uc.buildTicket(ctx, cmd)
	if err != nil {
		uc.logger.Errorw("invalid create ticket command", "error", err)
		return nil, err
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.ticketRepo.Create(txCtx, newTicket); err != nil {
			if errors.IsDuplicateError(err) {
				return errors.NewConflictError("a ticket already exists for this work item")
			}
			return fmt.Errorf("failed to save ticket: %w", err)
		}

		chosen, err := uc.notifier.NotifyCreated(txCtx, partiesOf(newTicket), cmd.CreatorID)
		if err != nil {
			return err
		}

		if chosen != nil {
			assigned, err := uc.guard.Mutate(txCtx, newTicket.ID(), nil, func(t *ticket.Ticket) (bool, error) {
				return true, t.AssignOperator(*chosen)
			})
			if err != nil {
				return err
			}
			newTicket = assigned
		}

		return uc.audit.RecordCreated(txCtx, newTicket, cmd.CreatorID)
	})
	if err != nil {
		uc.logger.Errorw("failed to create ticket", "error", err)
		return nil, err
	}

	result := &CreateTicketResult{TicketID: newTicket.ID()}
	if cmd.Origin.PushesToTracker() && uc.tracker != nil {
		newTicket = uc.pushToTracker(ctx, newTicket, &result.TrackerSync)
	}

	uc.broadcaster.Broadcast(ctx, events.TopicTickets, events.TicketCreated, events.IDPayload{ID: newTicket.ID()})
	uc.broadcaster.Broadcast(ctx, events.TicketTopic(newTicket.ID()), events.TicketCreated, events.IDPayload{ID: newTicket.ID()})

	uc.logger.Infow("ticket created successfully",
		"ticket_id", newTicket.ID(),
		"status", newTicket.Status(),
		"operator_id", newTicket.OperatorID(),
		"work_item_id", newTicket.WorkItemID(),
		"tracker_degraded", result.TrackerSync.Degraded(),
	)

	result.Status = newTicket.Status().String()
	result.OperatorID = newTicket.OperatorID()
	result.WorkItemID = newTicket.WorkItemID()
	result.Version = newTicket.Version()
	result.CreatedAt = newTicket.CreatedAt()
	return result, nil
}

func (uc *CreateTicketUseCase) buildTicket(ctx context.Context, cmd CreateTicketCommand) (*ticket.Ticket, error) {
	if cmd.CreatorID == 0 {
		return nil, errors.NewValidationError("creator ID is required")
	}
	if cmd.PlatformID == 0 {
		return nil, errors.NewValidationError("platform ID is required")
	}

	ticketType, err := vo.NewTicketType(cmd.Type)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	priority, err := vo.NewPriority(cmd.Priority)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	p, err := uc.platforms.GetByID(ctx, cmd.PlatformID)
	if err != nil {
		return nil, fmt.Errorf("failed to load platform: %w", err)
	}
	if p == nil {
		return nil, errors.NewValidationError("platform not found")
	}

	t, err := ticket.NewTicket(ticketType, cmd.Title, cmd.Description, priority, cmd.PlatformID, cmd.CreatorID, cmd.CreatedAt)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if cmd.WorkItemID != nil {
		if err := t.LinkWorkItem(*cmd.WorkItemID); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	return t, nil
}

// pushToTracker creates the work item and links it. The ticket is already
// committed, so failures only degrade the result.
func (uc *CreateTicketUseCase) pushToTracker(ctx context.Context, t *ticket.Ticket, sync *TrackerSync) *ticket.Ticket {
	sync.begin()

	workItemID, err := uc.tracker.CreateWorkItem(ctx, t.ID(), workitem.DraftFromTicket(t))
	if err != nil {
		uc.logger.Warnw("failed to create work item", "ticket_id", t.ID(), "error", err)
		sync.fail(err)
		return t
	}

	linked, err := uc.guard.Mutate(ctx, t.ID(), nil, func(t *ticket.Ticket) (bool, error) {
		return true, t.LinkWorkItem(workItemID)
	})
	if err != nil {
		uc.logger.Errorw("failed to link work item", "ticket_id", t.ID(), "work_item_id", workItemID, "error", err)
		sync.fail(err)
		return t
	}

	if linked.OperatorID() != nil {
		email, err := operatorEmail(ctx, uc.users, linked.OperatorID())
		if err == nil {
			err = uc.tracker.UpdateOperatorOnWorkItem(ctx, workItemID, email)
		}
		if err != nil {
			uc.logger.Warnw("failed to push operator to work item", "ticket_id", t.ID(), "work_item_id", workItemID, "error", err)
			sync.fail(err)
		}
	}
	return linked
}
