package usecases

import (
	"context"

	ticketUsecases "github.com/ticketsync/ticketsync/internal/application/ticket/usecases"
	"github.com/ticketsync/ticketsync/internal/domain/platform"
	"github.com/ticketsync/ticketsync/internal/domain/ticket"
	"github.com/ticketsync/ticketsync/internal/domain/user"
)

type TicketFinder interface {
	GetByWorkItemID(ctx context.Context, workItemID int) (*ticket.Ticket, error)
}

type PlatformFinder interface {
	GetByName(ctx context.Context, name string) (*platform.Platform, error)
}

type IdentityResolver interface {
	FindByEmailWithin(ctx context.Context, identity string) ([]*user.User, error)
}

// DescriptionSanitizer turns tracker rich text into plain text.
type DescriptionSanitizer interface {
	Sanitize(ctx context.Context, input string) (string, error)
}

// Lifecycle is the subset of ticket use cases the webhook drives.
type Lifecycle struct {
	Create ticketUsecases.CreateTicketExecutor
	Update ticketUsecases.UpdateTicketExecutor
	Delete ticketUsecases.DeleteTicketExecutor
}

// Outcome is how a delivery was handled.
type Outcome string

const (
	OutcomeIgnored Outcome = "ignored"
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeDeleted Outcome = "deleted"
)

type SyncResult struct {
	Outcome    Outcome
	TicketID   uint
	WorkItemID int
	Reason     string
}
