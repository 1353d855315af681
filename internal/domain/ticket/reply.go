package ticket

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ticketsync/ticketsync/internal/shared/biztime"
)

const MaxReplyLength = 5000

// ValidateAttachmentPath accepts only paths relative to the attachments
// directory: no absolute paths and no ".." segments.
func ValidateAttachmentPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("attachment path cannot be empty")
	}
	if !filepath.IsLocal(path) {
		return fmt.Errorf("attachment path %q must be relative to the attachments directory", path)
	}
	return nil
}

// Reply is a message on a ticket's conversation thread.
type Reply struct {
	id        uint
	ticketID  uint
	userID    uint
	message   string
	createdAt time.Time
}

func NewReply(ticketID, userID uint, message string) (*Reply, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if len(message) == 0 {
		return nil, fmt.Errorf("message cannot be empty")
	}
	if len(message) > MaxReplyLength {
		return nil, fmt.Errorf("message exceeds maximum length of %d characters", MaxReplyLength)
	}

	return &Reply{
		ticketID:  ticketID,
		userID:    userID,
		message:   message,
		createdAt: biztime.NowUTC(),
	}, nil
}

func ReconstructReply(id, ticketID, userID uint, message string, createdAt time.Time) *Reply {
	return &Reply{
		id:        id,
		ticketID:  ticketID,
		userID:    userID,
		message:   message,
		createdAt: createdAt,
	}
}

func (r *Reply) ID() uint             { return r.id }
func (r *Reply) TicketID() uint       { return r.ticketID }
func (r *Reply) UserID() uint         { return r.userID }
func (r *Reply) Message() string      { return r.message }
func (r *Reply) CreatedAt() time.Time { return r.createdAt }

func (r *Reply) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("reply ID is already set")
	}
	r.id = id
	return nil
}
