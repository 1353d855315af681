package usecases

import (
	"context"
	"sync"

	"github.com/ticketsync/ticketsync/internal/domain/notification"
	"github.com/ticketsync/ticketsync/internal/domain/user"
	"github.com/ticketsync/ticketsync/internal/shared/authorization"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
)

type createdNotification struct {
	Notification *notification.Notification
	Receivers    []uint
}

type mockNotificationRepository struct {
	CreateWithRecipientsFunc func(ctx context.Context, n *notification.Notification, receiverIDs []uint) ([]*notification.UserNotification, error)
	GetUserNotificationFunc  func(ctx context.Context, id uint) (*notification.UserNotification, error)
	MarkReadFunc             func(ctx context.Context, id uint) error
	ListInboxFunc            func(ctx context.Context, receiverID uint, limit, offset int) ([]*notification.InboxItem, int64, error)

	created []createdNotification
	nextID  uint
}

func (m *mockNotificationRepository) CreateWithRecipients(ctx context.Context, n *notification.Notification, receiverIDs []uint) ([]*notification.UserNotification, error) {
	if m.CreateWithRecipientsFunc != nil {
		return m.CreateWithRecipientsFunc(ctx, n, receiverIDs)
	}
	m.nextID++
	_ = n.SetID(m.nextID)
	m.created = append(m.created, createdNotification{Notification: n, Receivers: receiverIDs})

	rows := make([]*notification.UserNotification, 0, len(receiverIDs))
	for i, id := range receiverIDs {
		rows = append(rows, notification.ReconstructUserNotification(m.nextID*100+uint(i), m.nextID, id, false))
	}
	return rows, nil
}

func (m *mockNotificationRepository) GetUserNotification(ctx context.Context, id uint) (*notification.UserNotification, error) {
	if m.GetUserNotificationFunc != nil {
		return m.GetUserNotificationFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, id uint) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, id)
	}
	return nil
}

func (m *mockNotificationRepository) ListInbox(ctx context.Context, receiverID uint, limit, offset int) ([]*notification.InboxItem, int64, error) {
	if m.ListInboxFunc != nil {
		return m.ListInboxFunc(ctx, receiverID, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockNotificationRepository) ListUserNotificationsByTicket(ctx context.Context, ticketID uint) ([]*notification.UserNotification, error) {
	return nil, nil
}

func (m *mockNotificationRepository) DeleteByTicket(ctx context.Context, ticketID uint) error {
	return nil
}

type mockUserDirectory struct {
	users []*user.User
	err   error
}

func newMockUserDirectory(users ...*user.User) *mockUserDirectory {
	return &mockUserDirectory{users: users}
}

func (m *mockUserDirectory) ListOperatorPool(ctx context.Context) ([]*user.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	var pool []*user.User
	for _, u := range m.users {
		if u.IsOperator() {
			pool = append(pool, u)
		}
	}
	return pool, nil
}

func (m *mockUserDirectory) ListByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	var out []*user.User
	for _, id := range ids {
		for _, u := range m.users {
			if u.ID() == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

type mockRecommender struct {
	RecommendFunc func(ctx context.Context, platformID uint, pool []uint) (*uint, error)
}

func (m *mockRecommender) Recommend(ctx context.Context, platformID uint, pool []uint) (*uint, error) {
	if m.RecommendFunc != nil {
		return m.RecommendFunc(ctx, platformID, pool)
	}
	return nil, nil
}

type broadcastCall struct {
	Topic   string
	Event   string
	Payload interface{}
}

type mockBroadcaster struct {
	mu    sync.Mutex
	calls []broadcastCall
}

func (m *mockBroadcaster) Broadcast(ctx context.Context, topic, event string, payload interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, broadcastCall{Topic: topic, Event: event, Payload: payload})
}

func (m *mockBroadcaster) Calls() []broadcastCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]broadcastCall(nil), m.calls...)
}

type mockMailer struct {
	mu   sync.Mutex
	sent []string
	done chan struct{}
}

func (m *mockMailer) SendNotificationEmail(to, subject, body string) error {
	m.mu.Lock()
	m.sent = append(m.sent, to)
	m.mu.Unlock()
	if m.done != nil {
		m.done <- struct{}{}
	}
	return nil
}

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)                   {}
func (m *mockLogger) Info(msg string, args ...any)                    {}
func (m *mockLogger) Warn(msg string, args ...any)                    {}
func (m *mockLogger) Error(msg string, args ...any)                   {}
func (m *mockLogger) Fatal(msg string, args ...any)                   {}
func (m *mockLogger) With(args ...any) logger.Interface               { return m }
func (m *mockLogger) Named(name string) logger.Interface              { return m }
func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Fatalw(msg string, keysAndValues ...interface{}) {}

func newTestUser(id uint, email string, role authorization.UserRole) *user.User {
	return user.ReconstructUser(id, email, email, role)
}

func uintPtr(v uint) *uint {
	return &v
}
