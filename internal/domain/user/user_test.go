package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketsync/ticketsync/internal/shared/authorization"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser(" ana@example.com ", "", authorization.RoleOperator)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email())
	assert.Equal(t, "ana@example.com", u.DisplayName())
	assert.True(t, u.IsOperator())

	_, err = NewUser("not-an-email", "x", authorization.RoleUser)
	assert.Error(t, err)

	_, err = NewUser("a@b.c", "x", "root")
	assert.Error(t, err)
}
