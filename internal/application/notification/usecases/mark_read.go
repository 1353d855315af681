package usecases

import (
	"context"
	"fmt"

	"github.com/ticketsync/ticketsync/internal/domain/notification"
	"github.com/ticketsync/ticketsync/internal/domain/shared/events"
	"github.com/ticketsync/ticketsync/internal/shared/errors"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
)

type MarkReadUseCase struct {
	repo        notification.Repository
	broadcaster events.Broadcaster
	logger      logger.Interface
}

func NewMarkReadUseCase(
	repo notification.Repository,
	broadcaster events.Broadcaster,
	logger logger.Interface,
) *MarkReadUseCase {
	return &MarkReadUseCase{
		repo:        repo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, id uint, userID uint) error {
	uc.logger.Infow("executing mark notification read use case", "id", id, "user_id", userID)

	un, err := uc.repo.GetUserNotification(ctx, id)
	if err != nil {
		uc.logger.Errorw("failed to load user notification", "id", id, "error", err)
		return fmt.Errorf("failed to load notification: %w", err)
	}
	if un == nil {
		return errors.NewNotFoundError("notification not found")
	}

	if un.ReceiverID() != userID {
		uc.logger.Warnw("unauthorized access to notification", "id", id, "user_id", userID, "receiver_id", un.ReceiverID())
		return errors.NewForbiddenError("you don't have permission to access this notification")
	}

	if !un.MarkRead() {
		return nil
	}

	if err := uc.repo.MarkRead(ctx, id); err != nil {
		uc.logger.Errorw("failed to persist read flag", "id", id, "error", err)
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	uc.broadcaster.Broadcast(ctx, events.UserTopic(userID), events.UserNotificationUpdated,
		events.UserNotificationPayload{
			ID:             un.ID(),
			NotificationID: un.NotificationID(),
			IsRead:         true,
		})

	uc.logger.Infow("notification marked read", "id", id)
	return nil
}
