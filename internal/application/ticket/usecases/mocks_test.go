package usecases

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ticketsync/ticketsync/internal/domain/notification"
	"github.com/ticketsync/ticketsync/internal/domain/platform"
	"github.com/ticketsync/ticketsync/internal/domain/ticket"
	vo "github.com/ticketsync/ticketsync/internal/domain/ticket/valueobjects"
	"github.com/ticketsync/ticketsync/internal/domain/user"
	"github.com/ticketsync/ticketsync/internal/domain/workitem"
	"github.com/ticketsync/ticketsync/internal/shared/authorization"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
)

// mockTicketRepository keeps tickets in memory and enforces versions the
// way the database does. Func fields override the defaults.
type mockTicketRepository struct {
	mu     sync.Mutex
	rows   map[uint]ticket.Ticket
	nextID uint

	GetByIDFunc           func(ctx context.Context, id uint) (*ticket.Ticket, error)
	UpdateWithVersionFunc func(ctx context.Context, t *ticket.Ticket) (ticket.UpdateOutcome, error)
	CreateFunc            func(ctx context.Context, t *ticket.Ticket) error
}

func newMockTicketRepository() *mockTicketRepository {
	return &mockTicketRepository{rows: make(map[uint]ticket.Ticket)}
}

func (m *mockTicketRepository) put(t *ticket.Ticket) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[t.ID()] = *t
	if t.ID() > m.nextID {
		m.nextID = t.ID()
	}
}

func (m *mockTicketRepository) stored(id uint) *ticket.Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil
	}
	return &row
}

func (m *mockTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.WorkItemID() != nil {
		for _, row := range m.rows {
			if row.WorkItemID() != nil && *row.WorkItemID() == *t.WorkItemID() {
				return errors.New("UNIQUE constraint failed: tickets.work_item_id")
			}
		}
	}
	m.nextID++
	if err := t.SetID(m.nextID); err != nil {
		return err
	}
	m.rows[t.ID()] = *t
	return nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return m.stored(id), nil
}

func (m *mockTicketRepository) GetByWorkItemID(ctx context.Context, workItemID int) (*ticket.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.WorkItemID() != nil && *row.WorkItemID() == workItemID {
			cp := row
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockTicketRepository) UpdateWithVersion(ctx context.Context, t *ticket.Ticket) (ticket.UpdateOutcome, error) {
	if m.UpdateWithVersionFunc != nil {
		return m.UpdateWithVersionFunc(ctx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[t.ID()]
	if !ok {
		return ticket.UpdateNotFound, nil
	}
	if row.Version() != t.Version() {
		return ticket.UpdateConflict, nil
	}
	t.SetVersion(t.Version() + 1)
	m.rows[t.ID()] = *t
	return ticket.UpdateSucceeded, nil
}

func (m *mockTicketRepository) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *mockTicketRepository) CountOpenAssigned(ctx context.Context, operatorIDs []uint) (map[uint]int64, error) {
	return map[uint]int64{}, nil
}

type mockEditRepository struct {
	edits   []*ticket.Edit
	deleted []uint
}

func (m *mockEditRepository) Create(ctx context.Context, e *ticket.Edit) error {
	_ = e.SetID(uint(len(m.edits) + 1))
	m.edits = append(m.edits, e)
	return nil
}

func (m *mockEditRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Edit, error) {
	var out []*ticket.Edit
	for _, e := range m.edits {
		if e.TicketID() == ticketID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEditRepository) DeleteByTicket(ctx context.Context, ticketID uint) error {
	m.deleted = append(m.deleted, ticketID)
	return nil
}

type mockReplyRepository struct {
	replies []*ticket.Reply
	deleted []uint
}

func (m *mockReplyRepository) Create(ctx context.Context, r *ticket.Reply) error {
	_ = r.SetID(uint(len(m.replies) + 1))
	m.replies = append(m.replies, r)
	return nil
}

func (m *mockReplyRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Reply, error) {
	return m.replies, nil
}

func (m *mockReplyRepository) DeleteByTicket(ctx context.Context, ticketID uint) error {
	m.deleted = append(m.deleted, ticketID)
	return nil
}

type mockNotificationRepository struct {
	ListUserNotificationsByTicketFunc func(ctx context.Context, ticketID uint) ([]*notification.UserNotification, error)
	deleted                           []uint
}

func (m *mockNotificationRepository) CreateWithRecipients(ctx context.Context, n *notification.Notification, receiverIDs []uint) ([]*notification.UserNotification, error) {
	return nil, nil
}

func (m *mockNotificationRepository) GetUserNotification(ctx context.Context, id uint) (*notification.UserNotification, error) {
	return nil, nil
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, id uint) error {
	return nil
}

func (m *mockNotificationRepository) ListInbox(ctx context.Context, receiverID uint, limit, offset int) ([]*notification.InboxItem, int64, error) {
	return nil, 0, nil
}

func (m *mockNotificationRepository) ListUserNotificationsByTicket(ctx context.Context, ticketID uint) ([]*notification.UserNotification, error) {
	if m.ListUserNotificationsByTicketFunc != nil {
		return m.ListUserNotificationsByTicketFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockNotificationRepository) DeleteByTicket(ctx context.Context, ticketID uint) error {
	m.deleted = append(m.deleted, ticketID)
	return nil
}

type operatorChange struct {
	Parties    notification.Parties
	PreviousID *uint
	ActorID    uint
}

type mockNotifier struct {
	NotifyCreatedFunc func(ctx context.Context, p notification.Parties, actorID uint) (*uint, error)
	NotifyEditedFunc  func(ctx context.Context, p notification.Parties, editorID uint) error

	created         []notification.Parties
	edited          []notification.Parties
	operatorChanges []operatorChange
	replied         []notification.Parties
}

func (m *mockNotifier) NotifyCreated(ctx context.Context, p notification.Parties, actorID uint) (*uint, error) {
	m.created = append(m.created, p)
	if m.NotifyCreatedFunc != nil {
		return m.NotifyCreatedFunc(ctx, p, actorID)
	}
	return nil, nil
}

func (m *mockNotifier) NotifyEdited(ctx context.Context, p notification.Parties, editorID uint) error {
	m.edited = append(m.edited, p)
	if m.NotifyEditedFunc != nil {
		return m.NotifyEditedFunc(ctx, p, editorID)
	}
	return nil
}

func (m *mockNotifier) NotifyOperatorChanged(ctx context.Context, p notification.Parties, previousID *uint, actorID uint) error {
	m.operatorChanges = append(m.operatorChanges, operatorChange{Parties: p, PreviousID: previousID, ActorID: actorID})
	return nil
}

func (m *mockNotifier) NotifyReplied(ctx context.Context, p notification.Parties, authorID uint) error {
	m.replied = append(m.replied, p)
	return nil
}

type mockTracker struct {
	CreateWorkItemFunc func(ctx context.Context, ticketID uint, draft workitem.Draft) (int, error)
	UpdateWorkItemFunc func(ctx context.Context, workItemID int, draft workitem.Draft) error
	DeleteWorkItemFunc func(ctx context.Context, workItemID int) error

	calls []string
}

func (m *mockTracker) CreateWorkItem(ctx context.Context, ticketID uint, draft workitem.Draft) (int, error) {
	m.calls = append(m.calls, "create")
	if m.CreateWorkItemFunc != nil {
		return m.CreateWorkItemFunc(ctx, ticketID, draft)
	}
	return 500, nil
}

func (m *mockTracker) UpdateWorkItem(ctx context.Context, workItemID int, draft workitem.Draft) error {
	m.calls = append(m.calls, "update")
	if m.UpdateWorkItemFunc != nil {
		return m.UpdateWorkItemFunc(ctx, workItemID, draft)
	}
	return nil
}

func (m *mockTracker) UpdateOperatorOnWorkItem(ctx context.Context, workItemID int, assigneeEmail string) error {
	m.calls = append(m.calls, "operator:"+assigneeEmail)
	return nil
}

func (m *mockTracker) AddComment(ctx context.Context, workItemID int, author, message string) error {
	m.calls = append(m.calls, "comment:"+author)
	return nil
}

func (m *mockTracker) AddAttachment(ctx context.Context, workItemID int, path string) error {
	m.calls = append(m.calls, "attachment:"+path)
	return nil
}

func (m *mockTracker) DeleteWorkItem(ctx context.Context, workItemID int) error {
	m.calls = append(m.calls, "delete")
	if m.DeleteWorkItemFunc != nil {
		return m.DeleteWorkItemFunc(ctx, workItemID)
	}
	return nil
}

type mockTxManager struct {
	calls int
}

func (m *mockTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type broadcastCall struct {
	Topic string
	Event string
}

type mockBroadcaster struct {
	calls []broadcastCall
}

func (m *mockBroadcaster) Broadcast(ctx context.Context, topic, event string, payload interface{}) {
	m.calls = append(m.calls, broadcastCall{Topic: topic, Event: event})
}

type mockMetrics struct {
	operations []string
}

func (m *mockMetrics) RecordTicketOperation(operation, origin, outcome string) {
	m.operations = append(m.operations, operation+"/"+origin+"/"+outcome)
}

func (m *mockMetrics) RecordWebhookEvent(event, outcome string) {}

func (m *mockMetrics) RecordNotification(flow string, recipients int) {}

type mockUserReader struct {
	users map[uint]*user.User
}

func newMockUserReader(users ...*user.User) *mockUserReader {
	m := &mockUserReader{users: make(map[uint]*user.User)}
	for _, u := range users {
		m.users[u.ID()] = u
	}
	return m
}

func (m *mockUserReader) GetByID(ctx context.Context, id uint) (*user.User, error) {
	return m.users[id], nil
}

type mockPlatformReader struct{}

func (m *mockPlatformReader) GetByID(ctx context.Context, id uint) (*platform.Platform, error) {
	if id == 0 || id > 100 {
		return nil, nil
	}
	return platform.ReconstructPlatform(id, "Portal", "https://git.example.com/portal"), nil
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

const (
	testCreatorID  uint = 1
	testOperatorA  uint = 2
	testOperatorB  uint = 3
	testAdminID    uint = 4
	testPlatformID uint = 7
)

func testUsers() *mockUserReader {
	return newMockUserReader(
		user.ReconstructUser(testCreatorID, "requester@example.com", "Requester", authorization.RoleUser),
		user.ReconstructUser(testOperatorA, "op.a@example.com", "Operator A", authorization.RoleOperator),
		user.ReconstructUser(testOperatorB, "op.b@example.com", "Operator B", authorization.RoleOperator),
		user.ReconstructUser(testAdminID, "admin@example.com", "Admin", authorization.RoleAdmin),
	)
}

func seedTicket(repo *mockTicketRepository, id uint, status vo.TicketStatus, operatorID *uint, workItemID *int) *ticket.Ticket {
	created := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	t, err := ticket.ReconstructTicket(id, vo.TypeBug, "Login broken", "Cannot log in", vo.PriorityHigh,
		status, workItemID, testPlatformID, testCreatorID, operatorID, 1, created, created)
	if err != nil {
		panic(err)
	}
	repo.put(t)
	return t
}

func uintPtr(v uint) *uint {
	return &v
}

func intPtr(v int) *int {
	return &v
}
