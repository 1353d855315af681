package workitem

import (
	"context"
	"time"
)

// Delivery is the journal entry of one inbound webhook call.
type Delivery struct {
	ID         uint
	EventID    string
	Kind       string
	EventType  string
	WorkItemID int
	Outcome    string
	Error      string
	Payload    []byte
	ReceivedAt time.Time
}

// DeliveryJournal stores deliveries for operational audit.
type DeliveryJournal interface {
	Record(ctx context.Context, d *Delivery) error
	ListRecent(ctx context.Context, limit int) ([]*Delivery, error)
}
