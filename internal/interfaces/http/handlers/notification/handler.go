package notification

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ticketsync/ticketsync/internal/application/notification/dto"
	"github.com/ticketsync/ticketsync/internal/shared/authorization"
	"github.com/ticketsync/ticketsync/internal/shared/errors"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
	"github.com/ticketsync/ticketsync/internal/shared/utils"
)

type InboxService interface {
	ListInbox(ctx context.Context, userID uint, page, pageSize int) (*dto.InboxResponse, error)
	MarkRead(ctx context.Context, id uint, userID uint) error
}

type Handler struct {
	service InboxService
	logger  logger.Interface
}

func NewHandler(service InboxService, logger logger.Interface) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ListInbox handles GET /notifications.
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Security Bearer
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse}
// @Failure 401 {object} utils.APIResponse
// @Router /notifications [get]
func (h *Handler) ListInbox(c *gin.Context) {
	userID, _, ok := authorization.CurrentUser(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	p := utils.ParsePagination(c)
	result, err := h.service.ListInbox(c.Request.Context(), userID, p.Page, p.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Items, result.Total, result.Page, result.PageSize)
}

// MarkRead handles PATCH /notifications/:id/read.
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Security Bearer
// @Param id path int true "User notification ID"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /notifications/{id}/read [patch]
func (h *Handler) MarkRead(c *gin.Context) {
	userID, _, ok := authorization.CurrentUser(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	id, err := utils.ParseUintParam(c, "id", "notification")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id, userID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Notification marked as read", nil)
}
