package usecases

import (
	"context"
	"fmt"

	"github.com/ticketsync/ticketsync/internal/application/common"
	"github.com/ticketsync/ticketsync/internal/domain/shared/events"
	"github.com/ticketsync/ticketsync/internal/domain/ticket"
	vo "github.com/ticketsync/ticketsync/internal/domain/ticket/valueobjects"
	"github.com/ticketsync/ticketsync/internal/shared/authorization"
	"github.com/ticketsync/ticketsync/internal/shared/errors"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
)

type AddReplyCommand struct {
	TicketID        uint
	AuthorID        uint
	AuthorRole      authorization.UserRole
	Message         string
	AttachmentPaths []string
}

type AddReplyResult struct {
	ReplyID     uint
	TicketID    uint
	Status      string
	Version     int
	TrackerSync TrackerSync
}

type AddReplyUseCase struct {
	guard       *ConcurrencyGuard
	replyRepo   ticket.ReplyRepository
	users       UserReader
	notifier    NotificationDispatcher
	audit       EditRecorder
	tracker     TrackerClient
	txManager   TransactionManager
	broadcaster events.Broadcaster
	metrics     common.MetricsRecorder
	logger      logger.Interface
}

func NewAddReplyUseCase(
	ticketRepo ticket.Repository,
	replyRepo ticket.ReplyRepository,
	users UserReader,
	notifier NotificationDispatcher,
	audit EditRecorder,
	tracker TrackerClient,
	txManager TransactionManager,
	broadcaster events.Broadcaster,
	metrics common.MetricsRecorder,
	logger logger.Interface,
) *AddReplyUseCase {
	return &AddReplyUseCase{
		guard:       NewConcurrencyGuard(ticketRepo, logger),
		replyRepo:   replyRepo,
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

func (uc *AddReplyUseCase) Execute(ctx context.Context, cmd AddReplyCommand) (*AddReplyResult, error) {
	uc.logger.Infow("executing add reply use case", "ticket_id", cmd.TicketID, "author_id", cmd.AuthorID)

	result, err := uc.execute(ctx, cmd)
	outcome := common.OutcomeOf(err)
	if err == nil {
		outcome = result.TrackerSync.outcome()
	}
	uc.metrics.RecordTicketOperation("reply", OriginAPI.String(), outcome)
	return result, err
}

func (uc *AddReplyUseCase) execute(ctx context.Context, cmd AddReplyCommand) (*AddReplyResult, error) {
	reply, err := ticket.NewReply(cmd.TicketID, cmd.AuthorID, cmd.Message)
	if err != nil {
		uc.logger.Errorw("invalid reply", "ticket_id", cmd.TicketID, "error", err)
		return nil, errors.NewValidationError(err.Error())
	}
	for _, p := range cmd.AttachmentPaths {
		if err := ticket.ValidateAttachmentPath(p); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	var (
		oldStatus, newStatus vo.TicketStatus
		updated              *ticket.Ticket
	)
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.guard.Mutate(txCtx, cmd.TicketID, nil, func(t *ticket.Ticket) (bool, error) {
			if !authorization.CanAccessTicket(cmd.AuthorID, cmd.AuthorRole, t.CreatorID(), t.OperatorID()) {
				return false, errors.NewForbiddenError("you don't have permission to reply to this ticket")
			}
			oldStatus, newStatus = t.ReplyBy(cmd.AuthorID)
			return oldStatus != newStatus, nil
		})
		if err != nil {
			return err
		}
		updated = t

		if err := uc.replyRepo.Create(txCtx, reply); err != nil {
			return fmt.Errorf("failed to save reply: %w", err)
		}
		if oldStatus != newStatus {
			if err := uc.audit.RecordReply(txCtx, t.ID(), cmd.AuthorID, oldStatus, newStatus); err != nil {
				return err
			}
		}
		return uc.notifier.NotifyReplied(txCtx, partiesOf(t), cmd.AuthorID)
	})
	if err != nil {
		uc.logger.Errorw("failed to add reply", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	result := &AddReplyResult{
		ReplyID:  reply.ID(),
		TicketID: updated.ID(),
		Status:   updated.Status().String(),
		Version:  updated.Version(),
	}

	if uc.tracker != nil && updated.HasWorkItem() {
		uc.pushToTracker(ctx, *updated.WorkItemID(), cmd, &result.TrackerSync)
	}

	uc.broadcaster.Broadcast(ctx, events.TicketTopic(updated.ID()), events.ReplyCreated, events.IDPayload{ID: reply.ID()})
	if oldStatus != newStatus {
		uc.broadcaster.Broadcast(ctx, events.TopicTickets, events.TicketUpdated, events.IDPayload{ID: updated.ID()})
		uc.broadcaster.Broadcast(ctx, events.TicketTopic(updated.ID()), events.TicketUpdated, events.IDPayload{ID: updated.ID()})
	}

	uc.logger.Infow("reply added successfully",
		"ticket_id", updated.ID(),
		"reply_id", reply.ID(),
		"old_status", oldStatus,
		"new_status", newStatus,
	)
	return result, nil
}

func (uc *AddReplyUseCase) pushToTracker(ctx context.Context, workItemID int, cmd AddReplyCommand, sync *TrackerSync) {
	sync.begin()

	author := fmt.Sprintf("user #%d", cmd.AuthorID)
	if u, err := uc.users.GetByID(ctx, cmd.AuthorID); err == nil && u != nil {
		author = u.DisplayName()
	}

	if err := uc.tracker.AddComment(ctx, workItemID, author, cmd.Message); err != nil {
		uc.logger.Warnw("failed to add comment on work item", "work_item_id", workItemID, "error", err)
		sync.fail(err)
	}
	for _, path := range cmd.AttachmentPaths {
		if err := uc.tracker.AddAttachment(ctx, workItemID, path); err != nil {
			uc.logger.Warnw("failed to add attachment on work item", "work_item_id", workItemID, "path", path, "error", err)
			sync.fail(err)
		}
	}
}
