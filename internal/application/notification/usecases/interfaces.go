package usecases

import (
	"context"

	"github.com/ticketsync/ticketsync/internal/domain/user"
)

// UserDirectory resolves the people a notification goes to.
type UserDirectory interface {
	ListOperatorPool(ctx context.Context) ([]*user.User, error)
	ListByIDs(ctx context.Context, ids []uint) ([]*user.User, error)
}

// AssignmentRecommender picks an operator for a new ticket.
type AssignmentRecommender interface {
	Recommend(ctx context.Context, platformID uint, pool []uint) (*uint, error)
}

// Mailer sends the optional e-mail copy of a notification.
type Mailer interface {
	SendNotificationEmail(to, subject, body string) error
}
