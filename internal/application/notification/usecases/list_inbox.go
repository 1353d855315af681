package usecases

import (
	"context"

	"github.com/ticketsync/ticketsync/internal/application/notification/dto"
	"github.com/ticketsync/ticketsync/internal/domain/notification"
	"github.com/ticketsync/ticketsync/internal/shared/errors"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
	"github.com/ticketsync/ticketsync/internal/shared/utils"
)

type ListInboxQuery struct {
	UserID   uint
	Page     int
	PageSize int
}

type ListInboxUseCase struct {
	repo   notification.Repository
	logger logger.Interface
}

func NewListInboxUseCase(repo notification.Repository, logger logger.Interface) *ListInboxUseCase {
	return &ListInboxUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *ListInboxUseCase) Execute(ctx context.Context, query ListInboxQuery) (*dto.InboxResponse, error) {
	uc.logger.Infow("executing list inbox use case", "user_id", query.UserID)

	if query.UserID == 0 {
		return nil, errors.NewValidationError("user ID is required")
	}

	p := utils.ValidatePagination(query.Page, query.PageSize)
	items, total, err := uc.repo.ListInbox(ctx, query.UserID, p.PageSize, p.Offset())
	if err != nil {
		uc.logger.Errorw("failed to list inbox", "user_id", query.UserID, "error", err)
		return nil, errors.NewInternalError("failed to list notifications")
	}

	return &dto.InboxResponse{
		Items:    dto.ToInboxItemResponses(items),
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}
