package workitem

import (
	"strconv"
	"strings"

	"github.com/ticketsync/ticketsync/internal/domain/ticket"
)

// Draft is the tracker-side view of a ticket. Description is plain text;
// the client decides how to render it.
type Draft struct {
	Title       string
	Description string
	Type        string
	Priority    int
	State       string
}

// DraftFromTicket converts field by field.
func DraftFromTicket(t *ticket.Ticket) Draft {
	return Draft{
		Title:       t.Title(),
		Description: t.Description(),
		Type:        TypeToTracker(t.Type()),
		Priority:    PriorityToTracker(t.Priority()),
		State:       StatusToTracker(t.Status()),
	}
}

// CommentText formats a reply for the work item discussion.
func CommentText(author, message string) string {
	author = strings.TrimSpace(author)
	if author == "" {
		return message
	}
	return author + ": " + message
}

// TicketTag is the tag stamped on work items created from tickets.
func TicketTag(ticketID uint) string {
	return "ticket-" + strconv.FormatUint(uint64(ticketID), 10)
}
