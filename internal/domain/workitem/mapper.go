package workitem

import (
	"fmt"

	vo "github.com/ticketsync/ticketsync/internal/domain/ticket/valueobjects"
)

// MappingError reports a tracker value with no ticket counterpart. It is
// fatal for the event carrying it.
type MappingError struct {
	Field string
	Value string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("unmapped %s value %q", e.Field, e.Value)
}

// PriorityFromTracker is total: 1 and below are high, 3 and above are low.
func PriorityFromTracker(p int) vo.Priority {
	switch {
	case p <= 1:
		return vo.PriorityHigh
	case p == 2:
		return vo.PriorityMedium
	default:
		return vo.PriorityLow
	}
}

func PriorityToTracker(p vo.Priority) int {
	switch p {
	case vo.PriorityHigh:
		return 1
	case vo.PriorityMedium:
		return 2
	default:
		return 3
	}
}

func StatusFromTracker(state string) (vo.TicketStatus, error) {
	switch state {
	case StateToDo:
		return vo.StatusUnassigned, nil
	case StateDoing:
		return vo.StatusWaitingOperator, nil
	case StateDone:
		return vo.StatusClosed, nil
	default:
		return "", &MappingError{Field: FieldState, Value: state}
	}
}

// StatusToTracker folds both waiting states into the tracker's single
// in-progress state.
func StatusToTracker(s vo.TicketStatus) string {
	switch s {
	case vo.StatusWaitingOperator, vo.StatusWaitingUser:
		return StateDoing
	case vo.StatusClosed:
		return StateDone
	default:
		return StateToDo
	}
}

func TypeFromTracker(workItemType string) (vo.TicketType, error) {
	switch workItemType {
	case TypeIssue:
		return vo.TypeBug, nil
	case TypeTask, TypeEpic:
		return vo.TypeFeature, nil
	default:
		return "", &MappingError{Field: FieldWorkItemType, Value: workItemType}
	}
}

func TypeToTracker(t vo.TicketType) string {
	if t == vo.TypeBug {
		return TypeIssue
	}
	return TypeTask
}
