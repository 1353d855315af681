package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ticketsync/ticketsync/internal/domain/workitem"
	"github.com/ticketsync/ticketsync/internal/shared/biztime"
	"github.com/ticketsync/ticketsync/internal/shared/errors"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
	"github.com/ticketsync/ticketsync/internal/shared/utils"
)

const defaultDeliveryLimit = 50

type DeliveryLister interface {
	ListRecent(ctx context.Context, limit int) ([]*workitem.Delivery, error)
}

// DeliveryHandler exposes the webhook delivery journal to admins.
type DeliveryHandler struct {
	deliveries DeliveryLister
	logger     logger.Interface
}

func NewDeliveryHandler(deliveries DeliveryLister, log logger.Interface) *DeliveryHandler {
	return &DeliveryHandler{
		deliveries: deliveries,
		logger:     log,
	}
}

type DeliveryResponse struct {
	ID         uint            `json:"id"`
	EventID    string          `json:"event_id"`
	Kind       string          `json:"kind"`
	EventType  string          `json:"event_type"`
	WorkItemID int             `json:"work_item_id"`
	Outcome    string          `json:"outcome"`
	Error      string          `json:"error,omitempty"`
	Payload    json.RawMessage `json:"payload"`
	ReceivedAt string          `json:"received_at"`
}

// ListRecent handles GET /admin/webhook-deliveries?limit=N
// @Summary List recent webhook deliveries
// @Tags admin
// @Produce json
// @Security Bearer
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {object} utils.APIResponse{data=[]DeliveryResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires admin role"
// @Router /admin/webhook-deliveries [get]
func (h *DeliveryHandler) ListRecent(c *gin.Context) {
	limit := defaultDeliveryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.ErrorResponseWithError(c, errors.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	list, err := h.deliveries.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Errorw("failed to list webhook deliveries", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]*DeliveryResponse, 0, len(list))
	for _, d := range list {
		items = append(items, &DeliveryResponse{
			ID:         d.ID,
			EventID:    d.EventID,
			Kind:       d.Kind,
			EventType:  d.EventType,
			WorkItemID: d.WorkItemID,
			Outcome:    d.Outcome,
			Error:      d.Error,
			Payload:    payloadOrNull(d.Payload),
			ReceivedAt: biztime.FormatForDisplay(d.ReceivedAt),
		})
	}
	utils.SuccessResponse(c, http.StatusOK, "", items)
}

func payloadOrNull(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	return json.RawMessage(b)
}
