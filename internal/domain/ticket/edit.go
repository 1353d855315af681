package ticket

import (
	"fmt"
	"time"

	vo "github.com/ticketsync/ticketsync/internal/domain/ticket/valueobjects"
	"github.com/ticketsync/ticketsync/internal/shared/biztime"
)

// Edit is an append-only audit record of a lifecycle step.
type Edit struct {
	id          uint
	ticketID    uint
	userID      uint
	description string
	oldStatus   vo.TicketStatus
	newStatus   vo.TicketStatus
	createdAt   time.Time
}

func NewEdit(ticketID, userID uint, description string, oldStatus, newStatus vo.TicketStatus) (*Edit, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !oldStatus.IsValid() || !newStatus.IsValid() {
		return nil, fmt.Errorf("invalid status transition %s -> %s", oldStatus, newStatus)
	}

	return &Edit{
		ticketID:    ticketID,
		userID:      userID,
		description: description,
		oldStatus:   oldStatus,
		newStatus:   newStatus,
		createdAt:   biztime.NowUTC(),
	}, nil
}

func ReconstructEdit(
	id, ticketID, userID uint,
	description string,
	oldStatus, newStatus vo.TicketStatus,
	createdAt time.Time,
) *Edit {
	return &Edit{
		id:          id,
		ticketID:    ticketID,
		userID:      userID,
		description: description,
		oldStatus:   oldStatus,
		newStatus:   newStatus,
		createdAt:   createdAt,
	}
}

func (e *Edit) ID() uint                   { return e.id }
func (e *Edit) TicketID() uint             { return e.ticketID }
func (e *Edit) UserID() uint               { return e.userID }
func (e *Edit) Description() string        { return e.description }
func (e *Edit) OldStatus() vo.TicketStatus { return e.oldStatus }
func (e *Edit) NewStatus() vo.TicketStatus { return e.newStatus }
func (e *Edit) CreatedAt() time.Time       { return e.createdAt }

func (e *Edit) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("edit ID is already set")
	}
	e.id = id
	return nil
}
