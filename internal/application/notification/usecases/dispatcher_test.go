package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketsync/ticketsync/internal/domain/notification"
	"github.com/ticketsync/ticketsync/internal/domain/shared/events"
	"github.com/ticketsync/ticketsync/internal/shared/authorization"
)

const (
	creatorID  uint = 1
	operatorA  uint = 2
	operatorB  uint = 3
	adminID    uint = 4
	platformID uint = 7
)

type dispatcherFixture struct {
	repo        *mockNotificationRepository
	users       *mockUserDirectory
	recommender *mockRecommender
	broadcaster *mockBroadcaster
	dispatcher  *Dispatcher
}

func newDispatcherFixture() *dispatcherFixture {
	f := &dispatcherFixture{
		repo: &mockNotificationRepository{},
		users: newMockUserDirectory(
			newTestUser(creatorID, "requester@example.com", authorization.RoleUser),
			newTestUser(operatorA, "op.a@example.com", authorization.RoleOperator),
			newTestUser(operatorB, "op.b@example.com", authorization.RoleOperator),
			newTestUser(adminID, "admin@example.com", authorization.RoleAdmin),
		),
		recommender: &mockRecommender{},
		broadcaster: &mockBroadcaster{},
	}
	f.dispatcher = NewDispatcher(f.repo, f.users, f.recommender, f.broadcaster, nil, &mockLogger{})
	return f
}

func (f *dispatcherFixture) receivers() [][]uint {
	out := make([][]uint, 0, len(f.repo.created))
	for _, c := range f.repo.created {
		out = append(out, c.Receivers)
	}
	return out
}

func parties(operatorID *uint) notification.Parties {
	return notification.Parties{
		TicketID:   10,
		PlatformID: platformID,
		Title:      "Login broken",
		CreatorID:  creatorID,
		OperatorID: operatorID,
	}
}

func TestDispatcher_NotifyCreated_WithChosenOperator(t *testing.T) {
	f := newDispatcherFixture()
	var gotPool []uint
	f.recommender.RecommendFunc = func(ctx context.Context, pid uint, pool []uint) (*uint, error) {
		assert.Equal(t, platformID, pid)
		gotPool = pool
		return uintPtr(operatorB), nil
	}

	chosen, err := f.dispatcher.NotifyCreated(context.Background(), parties(nil), creatorID)
	require.NoError(t, err)
	require.NotNil(t, chosen)
	assert.Equal(t, operatorB, *chosen)
	assert.Equal(t, []uint{operatorA, operatorB, adminID}, gotPool)

	assert.Equal(t, [][]uint{{creatorID}, {operatorB}, {creatorID}}, f.receivers())
	assert.Contains(t, f.repo.created[0].Notification.Message(), "was created")
	assert.Contains(t, f.repo.created[1].Notification.Message(), "assigned to you by the system")
	assert.Contains(t, f.repo.created[2].Notification.Message(), "assigned to op.b@example.com")

	calls := f.broadcaster.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, events.UserTopic(operatorB), calls[1].Topic)
	assert.Equal(t, events.UserNotificationCreated, calls[1].Event)
}

func TestDispatcher_NotifyCreated_NoOperatorNotifiesPool(t *testing.T) {
	f := newDispatcherFixture()

	chosen, err := f.dispatcher.NotifyCreated(context.Background(), parties(nil), creatorID)
	require.NoError(t, err)
	assert.Nil(t, chosen)
	assert.Equal(t, [][]uint{{creatorID}, {operatorA, operatorB, adminID}}, f.receivers())
}

func TestDispatcher_NotifyCreated_RecommenderFailure(t *testing.T) {
	f := newDispatcherFixture()
	f.recommender.RecommendFunc = func(ctx context.Context, pid uint, pool []uint) (*uint, error) {
		return nil, errors.New("db down")
	}

	_, err := f.dispatcher.NotifyCreated(context.Background(), parties(nil), creatorID)
	assert.Error(t, err)
}

func TestDispatcher_NotifyEdited(t *testing.T) {
	tests := []struct {
		name       string
		operatorID *uint
		editorID   uint
		want       [][]uint
	}{
		{
			name:       "creator edits assigned ticket",
			operatorID: uintPtr(operatorA),
			editorID:   creatorID,
			want:       [][]uint{{operatorA}},
		},
		{
			name:     "creator edits unassigned ticket",
			editorID: creatorID,
			want:     [][]uint{{operatorA, operatorB, adminID}},
		},
		{
			name:       "operator edits",
			operatorID: uintPtr(operatorA),
			editorID:   operatorA,
			want:       [][]uint{{creatorID}},
		},
		{
			name:       "third party edits assigned ticket",
			operatorID: uintPtr(operatorA),
			editorID:   adminID,
			want:       [][]uint{{creatorID, operatorA}},
		},
		{
			name:     "third party edits unassigned ticket",
			editorID: adminID,
			want:     [][]uint{{creatorID, operatorA, operatorB, adminID}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDispatcherFixture()
			err := f.dispatcher.NotifyEdited(context.Background(), parties(tt.operatorID), tt.editorID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.receivers())
			assert.Equal(t, tt.editorID, f.repo.created[0].Notification.ActorID())
		})
	}
}

func TestDispatcher_NotifyOperatorChanged(t *testing.T) {
	t.Run("unassigned notifies creator and pool separately", func(t *testing.T) {
		f := newDispatcherFixture()
		err := f.dispatcher.NotifyOperatorChanged(context.Background(), parties(nil), uintPtr(operatorA), adminID)
		require.NoError(t, err)
		assert.Equal(t, [][]uint{{creatorID}, {operatorA, operatorB, adminID}}, f.receivers())
	})

	t.Run("first assignment skips previous operator", func(t *testing.T) {
		f := newDispatcherFixture()
		err := f.dispatcher.NotifyOperatorChanged(context.Background(), parties(uintPtr(operatorB)), nil, adminID)
		require.NoError(t, err)
		assert.Equal(t, [][]uint{{operatorB}, {creatorID}}, f.receivers())
	})

	t.Run("reassignment notifies previous operator", func(t *testing.T) {
		f := newDispatcherFixture()
		err := f.dispatcher.NotifyOperatorChanged(context.Background(), parties(uintPtr(operatorB)), uintPtr(operatorA), adminID)
		require.NoError(t, err)
		assert.Equal(t, [][]uint{{operatorB}, {creatorID}, {operatorA}}, f.receivers())
	})

	t.Run("same person in two roles gets two notifications", func(t *testing.T) {
		f := newDispatcherFixture()
		p := parties(uintPtr(adminID))
		p.CreatorID = adminID
		err := f.dispatcher.NotifyOperatorChanged(context.Background(), p, nil, adminID)
		require.NoError(t, err)
		assert.Equal(t, [][]uint{{adminID}, {adminID}}, f.receivers())
	})
}

func TestDispatcher_EmptyPoolPersistsNothing(t *testing.T) {
	f := newDispatcherFixture()
	f.users = newMockUserDirectory(newTestUser(creatorID, "requester@example.com", authorization.RoleUser))
	f.dispatcher = NewDispatcher(f.repo, f.users, f.recommender, f.broadcaster, nil, &mockLogger{})

	err := f.dispatcher.NotifyEdited(context.Background(), parties(nil), creatorID)
	require.NoError(t, err)
	assert.Empty(t, f.repo.created)
}

func TestDispatcher_PersistFailure(t *testing.T) {
	f := newDispatcherFixture()
	f.repo.CreateWithRecipientsFunc = func(ctx context.Context, n *notification.Notification, ids []uint) ([]*notification.UserNotification, error) {
		return nil, errors.New("insert failed")
	}

	err := f.dispatcher.NotifyEdited(context.Background(), parties(uintPtr(operatorA)), creatorID)
	assert.Error(t, err)
	assert.Empty(t, f.broadcaster.Calls())
}

func TestDispatcher_SendsEmailCopies(t *testing.T) {
	f := newDispatcherFixture()
	mailer := &mockMailer{done: make(chan struct{}, 1)}
	f.dispatcher.WithMailer(mailer)

	err := f.dispatcher.NotifyEdited(context.Background(), parties(uintPtr(operatorA)), creatorID)
	require.NoError(t, err)

	select {
	case <-mailer.done:
	case <-time.After(time.Second):
		t.Fatal("e-mail was not sent")
	}
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	assert.Equal(t, []string{"op.a@example.com"}, mailer.sent)
}
