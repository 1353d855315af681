package notification

// Parties identifies who a ticket concerns at the moment a notification is
// produced. OperatorID is the operator after the change.
type Parties struct {
	TicketID   uint
	PlatformID uint
	Title      string
	CreatorID  uint
	OperatorID *uint
}

func (p Parties) HasOperator() bool {
	return p.OperatorID != nil && *p.OperatorID != 0
}
