package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ticketsync/ticketsync/internal/infrastructure/permission"
	tickethandlers "github.com/ticketsync/ticketsync/internal/interfaces/http/handlers/ticket"
	"github.com/ticketsync/ticketsync/internal/interfaces/http/middleware"
)

type TicketRouteConfig struct {
	TicketHandler        *tickethandlers.Handler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupTicketRoutes(engine *gin.Engine, config *TicketRouteConfig) {
	perm := config.PermissionMiddleware
	tickets := engine.Group("/tickets")
	tickets.Use(config.AuthMiddleware.RequireAuth())
	{
		tickets.POST("",
			perm.RequirePermission(permission.ResourceTicket, permission.ActionCreate),
			config.TicketHandler.CreateTicket)

		// Specific action endpoints (must come BEFORE /:id to avoid conflicts)
		tickets.POST("/:id/replies",
			perm.RequirePermission(permission.ResourceTicket, permission.ActionReply),
			config.TicketHandler.AddReply)

		tickets.GET("/:id",
			perm.RequirePermission(permission.ResourceTicket, permission.ActionRead),
			config.TicketHandler.GetTicket)
		tickets.PUT("/:id",
			perm.RequirePermission(permission.ResourceTicket, permission.ActionUpdate),
			config.TicketHandler.UpdateTicket)
		tickets.DELETE("/:id",
			perm.RequirePermission(permission.ResourceTicket, permission.ActionDelete),
			config.TicketHandler.DeleteTicket)
	}
}
