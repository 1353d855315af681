package routes

import (
	"github.com/gin-gonic/gin"

	webhookhandlers "github.com/ticketsync/ticketsync/internal/interfaces/http/handlers/webhook"
	"github.com/ticketsync/ticketsync/internal/interfaces/http/middleware"
)

type WebhookRouteConfig struct {
	WebhookHandler        *webhookhandlers.Handler
	WebhookAuthMiddleware *middleware.WebhookAuthMiddleware
	// RateLimit is optional.
	RateLimit gin.HandlerFunc
}

// SetupWebhookRoutes registers the tracker service hook receivers. They sit
// outside JWT auth; the tracker authenticates with basic auth when configured.
func SetupWebhookRoutes(engine *gin.Engine, config *WebhookRouteConfig) {
	hooks := engine.Group("/webhook/ticket")
	if config.RateLimit != nil {
		hooks.Use(config.RateLimit)
	}
	hooks.Use(config.WebhookAuthMiddleware.RequireBasicAuth())
	{
		hooks.POST("/created", config.WebhookHandler.TicketCreated)
		hooks.POST("/updated", config.WebhookHandler.TicketUpdated)
		hooks.POST("/deleted", config.WebhookHandler.TicketDeleted)
	}
}
