package realtime

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ticketsync/ticketsync/internal/domain/shared/events"
	infraRealtime "github.com/ticketsync/ticketsync/internal/infrastructure/realtime"
	"github.com/ticketsync/ticketsync/internal/shared/authorization"
	"github.com/ticketsync/ticketsync/internal/shared/errors"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
	"github.com/ticketsync/ticketsync/internal/shared/utils"
)

const maxTopics = 32

// Handler upgrades authenticated requests to websocket subscriptions.
type Handler struct {
	hub      *infraRealtime.Hub
	upgrader websocket.Upgrader
	logger   logger.Interface
}

func NewHandler(hub *infraRealtime.Hub, allowedOrigins []string, logger logger.Interface) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

// Subscribe handles GET /ws?topics=tickets,ticket:12. The caller's own user
// topic is always included.
// @Summary Subscribe to realtime ticket events
// @Description Upgrades to a WebSocket; topics is a comma separated list of tickets, ticket:<id> and user:<id>
// @Tags realtime
// @Security Bearer
// @Param topics query string false "Topics to subscribe to"
// @Success 101
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /ws [get]
func (h *Handler) Subscribe(c *gin.Context) {
	userID, _, ok := authorization.CurrentUser(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	topics, err := resolveTopics(userID, c.Query("topics"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.logger.Warnw("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	h.logger.Infow("realtime subscriber connected", "user_id", userID, "topics", topics)
	infraRealtime.NewClient(h.hub, conn, h.logger).Serve(topics)
	h.logger.Infow("realtime subscriber disconnected", "user_id", userID)
}

// resolveTopics validates the requested topics. Users may follow the ticket
// list, single tickets and their own inbox, never another user's inbox.
func resolveTopics(userID uint, raw string) ([]string, error) {
	own := events.UserTopic(userID)
	topics := []string{own}
	seen := map[string]bool{own: true}

	for _, topic := range strings.Split(raw, ",") {
		topic = strings.TrimSpace(topic)
		if topic == "" || seen[topic] {
			continue
		}
		switch {
		case topic == events.TopicTickets:
		case strings.HasPrefix(topic, "ticket:"):
			id, err := strconv.ParseUint(strings.TrimPrefix(topic, "ticket:"), 10, 64)
			if err != nil || id == 0 {
				return nil, errors.NewValidationError(fmt.Sprintf("invalid topic %q", topic))
			}
		case strings.HasPrefix(topic, "user:"):
			return nil, errors.NewForbiddenError("cannot subscribe to another user's notifications")
		default:
			return nil, errors.NewValidationError(fmt.Sprintf("unknown topic %q", topic))
		}
		seen[topic] = true
		topics = append(topics, topic)
		if len(topics) > maxTopics {
			return nil, errors.NewValidationError("too many topics")
		}
	}
	return topics, nil
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}
