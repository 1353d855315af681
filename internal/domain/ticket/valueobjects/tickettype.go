package valueobjects

import "fmt"

type TicketType string

const (
	TypeBug     TicketType = "bug"
	TypeFeature TicketType = "feature"
)

func (t TicketType) String() string {
	return string(t)
}

func (t TicketType) IsValid() bool {
	return t == TypeBug || t == TypeFeature
}

func NewTicketType(s string) (TicketType, error) {
	t := TicketType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid ticket type: %s", s)
	}
	return t, nil
}
