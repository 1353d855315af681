package usecases

import (
	"context"
	"fmt"

	"github.com/ticketsync/ticketsync/internal/application/common"
	"github.com/ticketsync/ticketsync/internal/domain/notification"
	"github.com/ticketsync/ticketsync/internal/domain/shared/events"
	"github.com/ticketsync/ticketsync/internal/domain/ticket"
	"github.com/ticketsync/ticketsync/internal/shared/authorization"
	"github.com/ticketsync/ticketsync/internal/shared/errors"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
)

type DeleteTicketCommand struct {
	TicketID      uint
	RequesterID   uint
	RequesterRole authorization.UserRole
	Origin        Origin
}

type DeleteTicketResult struct {
	TicketID    uint
	WorkItemID  *int
	TrackerSync TrackerSync
}

type DeleteTicketUseCase struct {
	ticketRepo       ticket.Repository
	editRepo         ticket.EditRepository
	replyRepo        ticket.ReplyRepository
	notificationRepo notification.Repository
	tracker          TrackerClient
	txManager        TransactionManager
	broadcaster      events.Broadcaster
	metrics          common.MetricsRecorder
	logger           logger.Interface
}

func NewDeleteTicketUseCase(
	ticketRepo ticket.Repository,
	editRepo ticket.EditRepository,
	replyRepo ticket.ReplyRepository,
	notificationRepo notification.Repository,
	tracker TrackerClient,
	txManager TransactionManager,
	broadcaster events.Broadcaster,
	metrics common.MetricsRecorder,
	logger logger.Interface,
) *DeleteTicketUseCase {
	return &DeleteTicketUseCase{
		ticketRepo:       ticketRepo,
		editRepo:         editRepo,
		replyRepo:        replyRepo,
		notificationRepo: notificationRepo,
		tracker:          tracker,
		txManager:        txManager,
		broadcaster:      broadcaster,
		metrics:          metrics,
		logger:           logger,
	}
}

func (uc *DeleteTicketUseCase) Execute(ctx context.Context, cmd DeleteTicketCommand) (*DeleteTicketResult, error) {
	cmd.Origin = cmd.Origin.orDefault()
	uc.logger.Infow("executing delete ticket use case",
		"ticket_id", cmd.TicketID,
		"requester_id", cmd.RequesterID,
		"origin", cmd.Origin,
	)

	result, err := uc.execute(ctx, cmd)
	outcome := common.OutcomeOf(err)
	if err == nil {
		outcome = result.TrackerSync.outcome()
	}
	uc.metrics.RecordTicketOperation("delete", cmd.Origin.String(), outcome)
	return result, err
}

func (uc *DeleteTicketUseCase) execute(ctx context.Context, cmd DeleteTicketCommand) (*DeleteTicketResult, error) {
	if cmd.TicketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}

	var (
		deleted   *ticket.Ticket
		inboxRows []*notification.UserNotification
	)
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.ticketRepo.GetByID(txCtx, cmd.TicketID)
		if err != nil {
			return fmt.Errorf("failed to load ticket: %w", err)
		}
		if t == nil {
			return errors.NewNotFoundError("ticket not found")
		}
		// tracker deletions are authored upstream
		if cmd.Origin != OriginWebhook &&
			!authorization.CanAccessTicket(cmd.RequesterID, cmd.RequesterRole, t.CreatorID(), t.OperatorID()) {
			return errors.NewForbiddenError("no access to ticket")
		}
		deleted = t

		// the cascade emits no per-row events, so collect receivers first
		inboxRows, err = uc.notificationRepo.ListUserNotificationsByTicket(txCtx, t.ID())
		if err != nil {
			return fmt.Errorf("failed to list ticket notifications: %w", err)
		}

		if err := uc.editRepo.DeleteByTicket(txCtx, t.ID()); err != nil {
			return fmt.Errorf("failed to delete edits: %w", err)
		}
		if err := uc.replyRepo.DeleteByTicket(txCtx, t.ID()); err != nil {
			return fmt.Errorf("failed to delete replies: %w", err)
		}
		if err := uc.notificationRepo.DeleteByTicket(txCtx, t.ID()); err != nil {
			return fmt.Errorf("failed to delete notifications: %w", err)
		}
		if err := uc.ticketRepo.Delete(txCtx, t.ID()); err != nil {
			return fmt.Errorf("failed to delete ticket: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to delete ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	result := &DeleteTicketResult{
		TicketID:   deleted.ID(),
		WorkItemID: deleted.WorkItemID(),
	}

	if cmd.Origin.PushesToTracker() && uc.tracker != nil && deleted.HasWorkItem() {
		result.TrackerSync.begin()
		if err := uc.tracker.DeleteWorkItem(ctx, *deleted.WorkItemID()); err != nil {
			uc.logger.Warnw("failed to delete work item",
				"ticket_id", deleted.ID(),
				"work_item_id", *deleted.WorkItemID(),
				"error", err,
			)
			result.TrackerSync.fail(err)
		}
	}

	uc.broadcaster.Broadcast(ctx, events.TopicTickets, events.TicketDeleted, events.IDPayload{ID: deleted.ID()})
	uc.broadcaster.Broadcast(ctx, events.TicketTopic(deleted.ID()), events.TicketDeleted, events.IDPayload{ID: deleted.ID()})
	for _, un := range inboxRows {
		uc.broadcaster.Broadcast(ctx, events.UserTopic(un.ReceiverID()), events.UserNotificationDeleted,
			events.UserNotificationPayload{
				ID:             un.ID(),
				NotificationID: un.NotificationID(),
				TicketID:       deleted.ID(),
				IsRead:         un.IsRead(),
			})
	}

	uc.logger.Infow("ticket deleted successfully",
		"ticket_id", deleted.ID(),
		"work_item_id", deleted.WorkItemID(),
		"user_notifications", len(inboxRows),
		"tracker_degraded", result.TrackerSync.Degraded(),
	)
	return result, nil
}
