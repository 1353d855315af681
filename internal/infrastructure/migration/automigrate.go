package migration

import (
	"github.com/ticketsync/ticketsync/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists every table the service owns.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.PlatformModel{},
		&models.PlatformPreferenceModel{},
		&models.TicketModel{},
		&models.TicketEditModel{},
		&models.TicketReplyModel{},
		&models.NotificationModel{},
		&models.UserNotificationModel{},
		&models.WebhookDeliveryModel{},
	}
}
