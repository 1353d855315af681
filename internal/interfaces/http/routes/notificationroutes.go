package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ticketsync/ticketsync/internal/infrastructure/permission"
	notificationhandlers "github.com/ticketsync/ticketsync/internal/interfaces/http/handlers/notification"
	realtimehandlers "github.com/ticketsync/ticketsync/internal/interfaces/http/handlers/realtime"
	"github.com/ticketsync/ticketsync/internal/interfaces/http/middleware"
)

type NotificationRouteConfig struct {
	NotificationHandler  *notificationhandlers.Handler
	RealtimeHandler      *realtimehandlers.Handler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupNotificationRoutes(engine *gin.Engine, config *NotificationRouteConfig) {
	perm := config.PermissionMiddleware
	notifications := engine.Group("/notifications")
	notifications.Use(config.AuthMiddleware.RequireAuth())
	{
		notifications.GET("",
			perm.RequirePermission(permission.ResourceNotification, permission.ActionRead),
			config.NotificationHandler.ListInbox)
		notifications.PATCH("/:id/read",
			perm.RequirePermission(permission.ResourceNotification, permission.ActionUpdate),
			config.NotificationHandler.MarkRead)
	}

	if config.RealtimeHandler != nil {
		engine.GET("/ws",
			config.AuthMiddleware.RequireAuth(),
			perm.RequirePermission(permission.ResourceRealtime, permission.ActionRead),
			config.RealtimeHandler.Subscribe)
	}
}
