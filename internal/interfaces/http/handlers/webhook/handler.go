package webhook

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ticketsync/ticketsync/internal/application/tracker/usecases"
	"github.com/ticketsync/ticketsync/internal/shared/errors"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
	"github.com/ticketsync/ticketsync/internal/shared/utils"
)

// maxPayloadBytes caps a single delivery body.
const maxPayloadBytes = 1 << 20

type DeliveryHandler interface {
	Execute(ctx context.Context, kind string, payload []byte) (*usecases.SyncResult, error)
}

// Handler receives tracker service hook deliveries.
type Handler struct {
	deliveries DeliveryHandler
	logger     logger.Interface
}

func NewHandler(deliveries DeliveryHandler, logger logger.Interface) *Handler {
	return &Handler{
		deliveries: deliveries,
		logger:     logger,
	}
}

// TicketCreated handles POST /webhook/ticket/created.
// @Summary Tracker work item created
// @Tags webhooks
// @Accept json
// @Produce json
// @Security BasicAuth
// @Success 200 {object} utils.APIResponse{data=DeliveryResponse} "Ignored (self-echo)"
// @Success 201 {object} utils.APIResponse{data=DeliveryResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 413 {object} utils.APIResponse
// @Router /webhook/ticket/created [post]
func (h *Handler) TicketCreated(c *gin.Context) {
	h.handle(c, usecases.KindCreated)
}

// TicketUpdated handles POST /webhook/ticket/updated.
// @Summary Tracker work item updated
// @Tags webhooks
// @Accept json
// @Produce json
// @Security BasicAuth
// @Success 200 {object} utils.APIResponse{data=DeliveryResponse} "Ignored (self-echo)"
// @Success 204
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /webhook/ticket/updated [post]
func (h *Handler) TicketUpdated(c *gin.Context) {
	h.handle(c, usecases.KindUpdated)
}

// TicketDeleted handles POST /webhook/ticket/deleted.
// @Summary Tracker work item deleted
// @Tags webhooks
// @Accept json
// @Produce json
// @Security BasicAuth
// @Success 200 {object} utils.APIResponse{data=DeliveryResponse} "Ignored (self-echo)"
// @Success 204
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /webhook/ticket/deleted [post]
func (h *Handler) TicketDeleted(c *gin.Context) {
	h.handle(c, usecases.KindDeleted)
}

func (h *Handler) handle(c *gin.Context, kind string) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPayloadBytes+1))
	if err != nil {
		h.logger.Warnw("failed to read webhook body", "kind", kind, "error", err)
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("failed to read request body"))
		return
	}
	if len(payload) > maxPayloadBytes {
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	result, err := h.deliveries.Execute(c.Request.Context(), kind, payload)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	switch result.Outcome {
	case usecases.OutcomeCreated:
		utils.CreatedResponse(c, toDeliveryResponse(result), "Ticket created from work item")
	case usecases.OutcomeUpdated, usecases.OutcomeDeleted:
		utils.NoContentResponse(c)
	default:
		utils.SuccessResponse(c, http.StatusOK, "Delivery ignored", toDeliveryResponse(result))
	}
}

type DeliveryResponse struct {
	Outcome    string `json:"outcome"`
	TicketID   uint   `json:"ticket_id,omitempty"`
	WorkItemID int    `json:"work_item_id,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func toDeliveryResponse(r *usecases.SyncResult) *DeliveryResponse {
	return &DeliveryResponse{
		Outcome:    string(r.Outcome),
		TicketID:   r.TicketID,
		WorkItemID: r.WorkItemID,
		Reason:     r.Reason,
	}
}
