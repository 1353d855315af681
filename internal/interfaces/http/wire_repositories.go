package http

import (
	"gorm.io/gorm"

	"github.com/ticketsync/ticketsync/internal/infrastructure/repository"
)

// repositories holds all repository instances used by the application.
// Concrete types are kept because several repositories serve more than one
// port (the ticket repository also reports operator workload).
type repositories struct {
	ticketRepo       *repository.TicketRepository
	editRepo         *repository.TicketEditRepository
	replyRepo        *repository.TicketReplyRepository
	userRepo         *repository.UserRepository
	platformRepo     *repository.PlatformRepository
	notificationRepo *repository.NotificationRepository
	deliveryRepo     *repository.WebhookDeliveryRepository
}

func newRepositories(db *gorm.DB) *repositories {
	return &repositories{
		ticketRepo:       repository.NewTicketRepository(db),
		editRepo:         repository.NewTicketEditRepository(db),
		replyRepo:        repository.NewTicketReplyRepository(db),
		userRepo:         repository.NewUserRepository(db),
		platformRepo:     repository.NewPlatformRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		deliveryRepo:     repository.NewWebhookDeliveryRepository(db),
	}
}
