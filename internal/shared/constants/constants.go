package constants

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// HeaderTrackerSync is set on write responses whose tracker push failed.
	HeaderTrackerSync   = "X-Tracker-Sync"
	TrackerSyncDegraded = "degraded"

	ContentTypeJSON      = "application/json"
	ContentTypeJSONPatch = "application/json-patch+json"

	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	TableUsers               = "users"
	TablePlatforms           = "platforms"
	TablePlatformPreferences = "platform_preferences"
	TableTickets             = "tickets"
	TableTicketEdits         = "ticket_edits"
	TableTicketReplies       = "ticket_replies"
	TableNotifications       = "notifications"
	TableUserNotifications   = "user_notifications"
	TableWebhookDeliveries   = "webhook_deliveries"

	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgForbidden           = "Access forbidden"
)
