package valueobjects

import "fmt"

type TicketStatus string

const (
	StatusUnassigned      TicketStatus = "unassigned"
	StatusWaitingOperator TicketStatus = "waiting_operator"
	StatusWaitingUser     TicketStatus = "waiting_user"
	StatusClosed          TicketStatus = "closed"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusUnassigned:      true,
	StatusWaitingOperator: true,
	StatusWaitingUser:     true,
	StatusClosed:          true,
}

// Closed is terminal for the workflow but any edit may move a ticket out of
// it again.
var ticketStatusTransitions = map[TicketStatus][]TicketStatus{
	StatusUnassigned: {
		StatusWaitingOperator,
		StatusClosed,
	},
	StatusWaitingOperator: {
		StatusWaitingUser,
		StatusUnassigned,
		StatusClosed,
	},
	StatusWaitingUser: {
		StatusWaitingOperator,
		StatusUnassigned,
		StatusClosed,
	},
	StatusClosed: {
		StatusUnassigned,
		StatusWaitingOperator,
		StatusWaitingUser,
	},
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return validTicketStatuses[ts]
}

func (ts TicketStatus) CanTransitionTo(newStatus TicketStatus) bool {
	for _, allowed := range ticketStatusTransitions[ts] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

func (ts TicketStatus) IsUnassigned() bool {
	return ts == StatusUnassigned
}

func (ts TicketStatus) IsClosed() bool {
	return ts == StatusClosed
}

// IsOpen reports whether the ticket still counts towards operator workload.
func (ts TicketStatus) IsOpen() bool {
	return ts != StatusClosed
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}
