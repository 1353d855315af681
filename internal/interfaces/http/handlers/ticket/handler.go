package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ticketsync/ticketsync/internal/application/ticket/usecases"
	domainticket "github.com/ticketsync/ticketsync/internal/domain/ticket"
	"github.com/ticketsync/ticketsync/internal/shared/authorization"
	"github.com/ticketsync/ticketsync/internal/shared/errors"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
	"github.com/ticketsync/ticketsync/internal/shared/utils"
)

type Handler struct {
	createTicketUC usecases.CreateTicketExecutor
	updateTicketUC usecases.UpdateTicketExecutor
	deleteTicketUC usecases.DeleteTicketExecutor
	getTicketUC    usecases.GetTicketExecutor
	addReplyUC     usecases.AddReplyExecutor
	logger         logger.Interface
}

func NewHandler(
	createTicketUC usecases.CreateTicketExecutor,
	updateTicketUC usecases.UpdateTicketExecutor,
	deleteTicketUC usecases.DeleteTicketExecutor,
	getTicketUC usecases.GetTicketExecutor,
	addReplyUC usecases.AddReplyExecutor,
	logger logger.Interface,
) *Handler {
	return &Handler{
		createTicketUC: createTicketUC,
		updateTicketUC: updateTicketUC,
		deleteTicketUC: deleteTicketUC,
		getTicketUC:    getTicketUC,
		addReplyUC:     addReplyUC,
		logger:         logger,
	}
}

// CreateTicket handles POST /tickets.
// @Summary Create a ticket
// @Description Create a ticket for the caller, auto-assign it and push it to the tracker
// @Tags tickets
// @Accept json
// @Produce json
// @Security Bearer
// @Param ticket body CreateTicketRequest true "Ticket data"
// @Success 201 {object} utils.APIResponse{data=CreateTicketResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /tickets [post]
func (h *Handler) CreateTicket(c *gin.Context) {
	userID, _, ok := authorization.CurrentUser(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	var req CreateTicketRequest
	if err := utils.BindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for create ticket", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}
	if req.RequesterID != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("requester_id must not be set on create; the caller is the requester"))
		return
	}

	result, err := h.createTicketUC.Execute(c.Request.Context(), req.ToCommand(userID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.TrackerSync.Degraded() {
		utils.MarkTrackerDegraded(c)
	}
	utils.CreatedResponse(c, toCreateTicketResponse(result), "Ticket created successfully")
}

// UpdateTicket handles PUT /tickets/:id.
// @Summary Update a ticket
// @Description Replace the editable fields of a ticket; version enables optimistic concurrency
// @Tags tickets
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Param ticket body UpdateTicketRequest true "Ticket fields"
// @Success 204
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /tickets/{id} [put]
func (h *Handler) UpdateTicket(c *gin.Context) {
	userID, role, ok := authorization.CurrentUser(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateTicketRequest
	if err := utils.BindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for update ticket", "error", err, "ticket_id", ticketID)
		utils.ErrorResponseWithError(c, err)
		return
	}
	if req.RequesterID != userID && !role.IsAdmin() {
		utils.ErrorResponseWithError(c, errors.NewForbiddenError("requester_id must identify the caller"))
		return
	}

	result, err := h.updateTicketUC.Execute(c.Request.Context(), req.ToCommand(ticketID, role))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.TrackerSync.Degraded() {
		utils.MarkTrackerDegraded(c)
	}
	utils.NoContentResponse(c)
}

// DeleteTicket handles DELETE /tickets/:id.
// @Summary Delete a ticket
// @Tags tickets
// @Produce json
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Success 204
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /tickets/{id} [delete]
func (h *Handler) DeleteTicket(c *gin.Context) {
	userID, role, ok := authorization.CurrentUser(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.deleteTicketUC.Execute(c.Request.Context(), usecases.DeleteTicketCommand{
		TicketID:      ticketID,
		RequesterID:   userID,
		RequesterRole: role,
		Origin:        usecases.OriginAPI,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.TrackerSync.Degraded() {
		utils.MarkTrackerDegraded(c)
	}
	utils.NoContentResponse(c)
}

// GetTicket handles GET /tickets/:id.
// @Summary Get a ticket
// @Tags tickets
// @Produce json
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /tickets/{id} [get]
func (h *Handler) GetTicket(c *gin.Context) {
	userID, role, ok := authorization.CurrentUser(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	detail, err := h.getTicketUC.Execute(c.Request.Context(), usecases.GetTicketQuery{
		TicketID: ticketID,
		UserID:   userID,
		UserRole: role,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", detail)
}

// AddReply handles POST /tickets/:id/replies.
// @Summary Reply to a ticket
// @Description Attachment paths are relative to the configured attachments directory
// @Tags tickets
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Param reply body AddReplyRequest true "Reply"
// @Success 201 {object} utils.APIResponse{data=AddReplyResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /tickets/{id}/replies [post]
func (h *Handler) AddReply(c *gin.Context) {
	userID, role, ok := authorization.CurrentUser(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AddReplyRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	for _, p := range req.AttachmentPaths {
		if err := domainticket.ValidateAttachmentPath(p); err != nil {
			h.logger.Warnw("rejected attachment path", "ticket_id", ticketID, "user_id", userID, "error", err)
			utils.ErrorResponseWithError(c, errors.NewValidationError(err.Error()))
			return
		}
	}

	result, err := h.addReplyUC.Execute(c.Request.Context(), usecases.AddReplyCommand{
		TicketID:        ticketID,
		AuthorID:        userID,
		AuthorRole:      role,
		Message:         req.Message,
		AttachmentPaths: req.AttachmentPaths,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.TrackerSync.Degraded() {
		utils.MarkTrackerDegraded(c)
	}
	utils.CreatedResponse(c, toAddReplyResponse(result), "Reply added successfully")
}
