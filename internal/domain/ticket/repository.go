package ticket

import (
	"context"
)

// UpdateOutcome is the result of a versioned write.
type UpdateOutcome int

const (
	UpdateSucceeded UpdateOutcome = iota
	// UpdateConflict means the row exists but its version moved on.
	UpdateConflict
	// UpdateNotFound means the row is gone, typically deleted concurrently.
	UpdateNotFound
)

func (o UpdateOutcome) String() string {
	switch o {
	case UpdateSucceeded:
		return "succeeded"
	case UpdateConflict:
		return "conflict"
	case UpdateNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Repository persists tickets. Lookups return (nil, nil) when nothing matches.
type Repository interface {
	Create(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, id uint) (*Ticket, error)
	GetByWorkItemID(ctx context.Context, workItemID int) (*Ticket, error)
	// UpdateWithVersion writes t only if the stored version still equals
	// t.Version(). On success the stored and in-memory versions advance by one.
	UpdateWithVersion(ctx context.Context, t *Ticket) (UpdateOutcome, error)
	Delete(ctx context.Context, id uint) error
	// CountOpenAssigned returns, per operator, the number of non-closed
	// tickets assigned to them. Operators without tickets are absent.
	CountOpenAssigned(ctx context.Context, operatorIDs []uint) (map[uint]int64, error)
}

type EditRepository interface {
	Create(ctx context.Context, e *Edit) error
	ListByTicket(ctx context.Context, ticketID uint) ([]*Edit, error)
	DeleteByTicket(ctx context.Context, ticketID uint) error
}

type ReplyRepository interface {
	Create(ctx context.Context, r *Reply) error
	ListByTicket(ctx context.Context, ticketID uint) ([]*Reply, error)
	DeleteByTicket(ctx context.Context, ticketID uint) error
}
