package http

import (
	"github.com/gin-gonic/gin"

	"github.com/ticketsync/ticketsync/internal/interfaces/http/middleware"
	"github.com/ticketsync/ticketsync/internal/interfaces/http/routes"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.CustomLogger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))

	c.engine.GET("/health", c.hdlrs.healthHandler.HealthCheck)
	if c.metricsRecorder != nil {
		path := c.cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		c.engine.GET(path, gin.WrapH(c.metricsRecorder.Handler()))
	}

	routes.SetupTicketRoutes(c.engine, &routes.TicketRouteConfig{
		TicketHandler:        c.hdlrs.ticketHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})

	routes.SetupWebhookRoutes(c.engine, &routes.WebhookRouteConfig{
		WebhookHandler:        c.hdlrs.webhookHandler,
		WebhookAuthMiddleware: c.webhookAuthMiddleware,
		RateLimit:             c.webhookRateLimit,
	})

	routes.SetupNotificationRoutes(c.engine, &routes.NotificationRouteConfig{
		NotificationHandler:  c.hdlrs.notificationHandler,
		RealtimeHandler:      c.hdlrs.realtimeHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})

	routes.SetupAdminRoutes(c.engine, &routes.AdminRouteConfig{
		DeliveryHandler:      c.hdlrs.deliveryHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}
