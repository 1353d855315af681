package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ticketsync/ticketsync/internal/infrastructure/permission"
	adminhandlers "github.com/ticketsync/ticketsync/internal/interfaces/http/handlers/admin"
	"github.com/ticketsync/ticketsync/internal/interfaces/http/middleware"
)

type AdminRouteConfig struct {
	DeliveryHandler      *adminhandlers.DeliveryHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupAdminRoutes(engine *gin.Engine, config *AdminRouteConfig) {
	admin := engine.Group("/admin")
	admin.Use(config.AuthMiddleware.RequireAuth())
	{
		admin.GET("/webhook-deliveries",
			config.PermissionMiddleware.RequirePermission(permission.ResourceDelivery, permission.ActionRead),
			config.DeliveryHandler.ListRecent)
	}
}
