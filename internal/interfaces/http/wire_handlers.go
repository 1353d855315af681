package http

import (
	"context"

	"github.com/ticketsync/ticketsync/internal/interfaces/http/handlers"
	adminHandlers "github.com/ticketsync/ticketsync/internal/interfaces/http/handlers/admin"
	notificationHandlers "github.com/ticketsync/ticketsync/internal/interfaces/http/handlers/notification"
	realtimeHandlers "github.com/ticketsync/ticketsync/internal/interfaces/http/handlers/realtime"
	ticketHandlers "github.com/ticketsync/ticketsync/internal/interfaces/http/handlers/ticket"
	webhookHandlers "github.com/ticketsync/ticketsync/internal/interfaces/http/handlers/webhook"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	healthHandler       *handlers.HealthHandler
	ticketHandler       *ticketHandlers.Handler
	webhookHandler      *webhookHandlers.Handler
	notificationHandler *notificationHandlers.Handler
	realtimeHandler     *realtimeHandlers.Handler
	deliveryHandler     *adminHandlers.DeliveryHandler
}

func (c *Container) initHandlers() {
	log := c.log
	ucs := c.ucs

	checks := map[string]handlers.Pinger{
		"database": handlers.PingFunc(func(ctx context.Context) error {
			sqlDB, err := c.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}
	if c.redis != nil {
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return c.redis.Ping(ctx).Err()
		})
	}

	c.hdlrs = &allHandlers{
		healthHandler: handlers.NewHealthHandler(checks, log),
		ticketHandler: ticketHandlers.NewHandler(
			ucs.createTicketUC,
			ucs.updateTicketUC,
			ucs.deleteTicketUC,
			ucs.getTicketUC,
			ucs.addReplyUC,
			log,
		),
		webhookHandler:      webhookHandlers.NewHandler(ucs.handleDeliveryUC, log),
		notificationHandler: notificationHandlers.NewHandler(ucs.notificationService, log),
		realtimeHandler:     realtimeHandlers.NewHandler(c.hub, c.cfg.Server.AllowedOrigins, log.Named("realtime")),
		deliveryHandler:     adminHandlers.NewDeliveryHandler(c.repos.deliveryRepo, log),
	}
}
