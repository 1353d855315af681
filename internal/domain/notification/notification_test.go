package notification

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotification(t *testing.T) {
	n, err := NewNotification(4, 2, "Ticket #4 was created")
	require.NoError(t, err)
	assert.Equal(t, uint(4), n.TicketID())
	assert.Equal(t, uint(2), n.ActorID())
	assert.False(t, n.CreatedAt().IsZero())

	_, err = NewNotification(0, 2, "x")
	assert.Error(t, err)
	_, err = NewNotification(4, 2, "")
	assert.Error(t, err)
	_, err = NewNotification(4, 2, strings.Repeat("x", MaxMessageLength+1))
	assert.Error(t, err)
}

func TestUserNotification_MarkRead(t *testing.T) {
	un := ReconstructUserNotification(5, 1, 9, false)

	assert.True(t, un.MarkRead())
	assert.False(t, un.MarkRead())
	assert.True(t, un.IsRead())
	assert.Equal(t, uint(9), un.ReceiverID())
}
