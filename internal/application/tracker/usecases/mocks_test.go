package usecases

import (
	"context"
	"strings"
	"time"

	ticketUsecases "github.com/ticketsync/ticketsync/internal/application/ticket/usecases"
	"github.com/ticketsync/ticketsync/internal/domain/platform"
	"github.com/ticketsync/ticketsync/internal/domain/ticket"
	vo "github.com/ticketsync/ticketsync/internal/domain/ticket/valueobjects"
	"github.com/ticketsync/ticketsync/internal/domain/user"
	"github.com/ticketsync/ticketsync/internal/domain/workitem"
	"github.com/ticketsync/ticketsync/internal/shared/authorization"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
)

type mockTicketFinder struct {
	byWorkItem map[int]*ticket.Ticket
}

func (m *mockTicketFinder) GetByWorkItemID(ctx context.Context, workItemID int) (*ticket.Ticket, error) {
	return m.byWorkItem[workItemID], nil
}

type mockPlatformFinder struct{}

func (m *mockPlatformFinder) GetByName(ctx context.Context, name string) (*platform.Platform, error) {
	if name == "Portal" {
		return platform.ReconstructPlatform(7, "Portal", ""), nil
	}
	return nil, nil
}

type mockIdentityResolver struct {
	users []*user.User
}

func (m *mockIdentityResolver) FindByEmailWithin(ctx context.Context, identity string) ([]*user.User, error) {
	var out []*user.User
	for _, u := range m.users {
		if strings.Contains(strings.ToLower(identity), strings.ToLower(u.Email())) {
			out = append(out, u)
		}
	}
	return out, nil
}

type mockCreate struct {
	cmds []ticketUsecases.CreateTicketCommand
}

func (m *mockCreate) Execute(ctx context.Context, cmd ticketUsecases.CreateTicketCommand) (*ticketUsecases.CreateTicketResult, error) {
	m.cmds = append(m.cmds, cmd)
	return &ticketUsecases.CreateTicketResult{TicketID: 31, WorkItemID: cmd.WorkItemID}, nil
}

type mockUpdate struct {
	cmds []ticketUsecases.UpdateTicketCommand
}

func (m *mockUpdate) Execute(ctx context.Context, cmd ticketUsecases.UpdateTicketCommand) (*ticketUsecases.UpdateTicketResult, error) {
	m.cmds = append(m.cmds, cmd)
	return &ticketUsecases.UpdateTicketResult{TicketID: cmd.TicketID}, nil
}

type mockDelete struct {
	cmds []ticketUsecases.DeleteTicketCommand
}

func (m *mockDelete) Execute(ctx context.Context, cmd ticketUsecases.DeleteTicketCommand) (*ticketUsecases.DeleteTicketResult, error) {
	m.cmds = append(m.cmds, cmd)
	return &ticketUsecases.DeleteTicketResult{TicketID: cmd.TicketID}, nil
}

type mockJournal struct {
	deliveries []*workitem.Delivery
	err        error
}

func (m *mockJournal) Record(ctx context.Context, d *workitem.Delivery) error {
	m.deliveries = append(m.deliveries, d)
	return m.err
}

func (m *mockJournal) ListRecent(ctx context.Context, limit int) ([]*workitem.Delivery, error) {
	return m.deliveries, nil
}

type mockMetrics struct {
	webhook []string
}

func (m *mockMetrics) RecordTicketOperation(operation, origin, outcome string) {}
func (m *mockMetrics) RecordWebhookEvent(event, outcome string) {
	m.webhook = append(m.webhook, event+"/"+outcome)
}
func (m *mockMetrics) RecordNotification(flow string, recipients int) {}

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

func testIdentities() *mockIdentityResolver {
	return &mockIdentityResolver{users: []*user.User{
		user.ReconstructUser(1, "jane@example.com", "Jane", authorization.RoleUser),
		user.ReconstructUser(2, "op@example.com", "Op", authorization.RoleOperator),
	}}
}

func linkedTicket(id uint, workItemID int, status vo.TicketStatus, operatorID *uint) *ticket.Ticket {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	t, err := ticket.ReconstructTicket(id, vo.TypeBug, "Old title", "", vo.PriorityLow, status,
		&workItemID, 7, 1, operatorID, 3, now, now)
	if err != nil {
		panic(err)
	}
	return t
}
