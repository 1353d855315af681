package notification

import (
	"context"

	"github.com/ticketsync/ticketsync/internal/application/notification/dto"
	"github.com/ticketsync/ticketsync/internal/application/notification/usecases"
	notificationDomain "github.com/ticketsync/ticketsync/internal/domain/notification"
	"github.com/ticketsync/ticketsync/internal/domain/shared/events"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
)

// Service is the read side of a user's inbox.
type Service struct {
	listInbox *usecases.ListInboxUseCase
	markRead  *usecases.MarkReadUseCase
}

func NewService(
	repo notificationDomain.Repository,
	broadcaster events.Broadcaster,
	logger logger.Interface,
) *Service {
	return &Service{
		listInbox: usecases.NewListInboxUseCase(repo, logger),
		markRead:  usecases.NewMarkReadUseCase(repo, broadcaster, logger),
	}
}

func (s *Service) ListInbox(ctx context.Context, userID uint, page, pageSize int) (*dto.InboxResponse, error) {
	return s.listInbox.Execute(ctx, usecases.ListInboxQuery{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *Service) MarkRead(ctx context.Context, id uint, userID uint) error {
	return s.markRead.Execute(ctx, id, userID)
}
