package workitem

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/ticketsync/ticketsync/internal/domain/ticket/valueobjects"
)

func TestPriorityFromTracker(t *testing.T) {
	inputs := []int{-1, 0, 1, 2, 3, 4}
	want := []vo.Priority{vo.PriorityHigh, vo.PriorityHigh, vo.PriorityHigh, vo.PriorityMedium, vo.PriorityLow, vo.PriorityLow}

	for i, in := range inputs {
		assert.Equal(t, want[i], PriorityFromTracker(in), "priority %d", in)
	}
}

func TestPriorityRoundTrip(t *testing.T) {
	for _, p := range []vo.Priority{vo.PriorityHigh, vo.PriorityMedium, vo.PriorityLow} {
		assert.Equal(t, p, PriorityFromTracker(PriorityToTracker(p)))
	}
}

func TestStatusFromTracker(t *testing.T) {
	tests := []struct {
		state string
		want  vo.TicketStatus
	}{
		{"To Do", vo.StatusUnassigned},
		{"Doing", vo.StatusWaitingOperator},
		{"Done", vo.StatusClosed},
	}
	for _, tt := range tests {
		got, err := StatusFromTracker(tt.state)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := StatusFromTracker("Blocked")
	var mErr *MappingError
	require.True(t, errors.As(err, &mErr))
	assert.Equal(t, FieldState, mErr.Field)
	assert.Equal(t, "Blocked", mErr.Value)

	_, err = StatusFromTracker("done")
	assert.Error(t, err)
}

func TestStatusToTracker(t *testing.T) {
	assert.Equal(t, StateToDo, StatusToTracker(vo.StatusUnassigned))
	assert.Equal(t, StateDoing, StatusToTracker(vo.StatusWaitingOperator))
	assert.Equal(t, StateDoing, StatusToTracker(vo.StatusWaitingUser))
	assert.Equal(t, StateDone, StatusToTracker(vo.StatusClosed))
}

func TestTypeFromTracker(t *testing.T) {
	got, err := TypeFromTracker("Issue")
	require.NoError(t, err)
	assert.Equal(t, vo.TypeBug, got)

	for _, in := range []string{"Task", "Epic"} {
		got, err = TypeFromTracker(in)
		require.NoError(t, err)
		assert.Equal(t, vo.TypeFeature, got)
	}

	_, err = TypeFromTracker("User Story")
	var mErr *MappingError
	assert.True(t, errors.As(err, &mErr))

	assert.Equal(t, TypeIssue, TypeToTracker(vo.TypeBug))
	assert.Equal(t, TypeTask, TypeToTracker(vo.TypeFeature))
}
