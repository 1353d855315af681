package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketsync/ticketsync/internal/domain/user"
	"github.com/ticketsync/ticketsync/internal/shared/authorization"
)

func seedUsers(t *testing.T, repo *UserRepository) []*user.User {
	t.Helper()
	specs := []struct {
		email string
		name  string
		role  authorization.UserRole
	}{
		{"jane@example.com", "Jane", authorization.RoleUser},
		{"op@example.com", "Op", authorization.RoleOperator},
		{"boss@example.com", "Boss", authorization.RoleAdmin},
		{"another.op@example.com", "Another", authorization.RoleOperator},
	}

	out := make([]*user.User, 0, len(specs))
	for _, s := range specs {
		u, err := user.NewUser(s.email, s.name, s.role)
		require.NoError(t, err)
		require.NoError(t, repo.Create(context.Background(), u))
		out = append(out, u)
	}
	return out
}

func TestUserRepository_Lookups(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()
	users := seedUsers(t, repo)

	got, err := repo.GetByID(ctx, users[1].ID())
	require.NoError(t, err)
	assert.Equal(t, "op@example.com", got.Email())
	assert.Equal(t, authorization.RoleOperator, got.Role())

	got, err = repo.GetByEmail(ctx, " JANE@example.com ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, users[0].ID(), got.ID())

	got, err = repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, got)

	list, err := repo.ListByIDs(ctx, []uint{users[2].ID(), 999, users[0].ID()})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, users[0].ID(), list[0].ID())
	assert.Equal(t, users[2].ID(), list[1].ID())
}

func TestUserRepository_ListOperatorPool(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	users := seedUsers(t, repo)

	pool, err := repo.ListOperatorPool(context.Background())
	require.NoError(t, err)

	ids := make([]uint, 0, len(pool))
	for _, u := range pool {
		ids = append(ids, u.ID())
	}
	assert.Equal(t, []uint{users[1].ID(), users[2].ID(), users[3].ID()}, ids)
}

func TestUserRepository_FindByEmailWithin(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	users := seedUsers(t, repo)
	ctx := context.Background()

	tests := []struct {
		name     string
		identity string
		want     []uint
	}{
		{"display name and address", "Jane Doe <Jane@Example.com>", []uint{users[0].ID()}},
		{"bare address", "boss@example.com", []uint{users[2].ID()}},
		// op@example.com is a suffix of another.op@example.com
		{"ambiguous", "Another <another.op@example.com>", []uint{users[1].ID(), users[3].ID()}},
		{"unknown", "Ghost <ghost@example.com>", nil},
		{"empty", "  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindByEmailWithin(ctx, tt.identity)
			require.NoError(t, err)
			var ids []uint
			for _, u := range found {
				ids = append(ids, u.ID())
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}
