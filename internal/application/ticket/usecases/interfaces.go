package usecases

import (
	"context"

	"github.com/ticketsync/ticketsync/internal/application/ticket/dto"
	"github.com/ticketsync/ticketsync/internal/domain/notification"
	"github.com/ticketsync/ticketsync/internal/domain/ticket"
	vo "github.com/ticketsync/ticketsync/internal/domain/ticket/valueobjects"
	"github.com/ticketsync/ticketsync/internal/domain/workitem"
)

// Origin tells the use cases who triggered a change. Only API changes are
// pushed to the tracker; webhook changes already come from it.
type Origin string

const (
	OriginAPI     Origin = "api"
	OriginWebhook Origin = "webhook"
)

func (o Origin) String() string {
	return string(o)
}

// orDefault treats an unset origin as a direct API call.
func (o Origin) orDefault() Origin {
	if o == "" {
		return OriginAPI
	}
	return o
}

func (o Origin) PushesToTracker() bool {
	return o != OriginWebhook
}

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error)
}

type UpdateTicketExecutor interface {
	Execute(ctx context.Context, cmd UpdateTicketCommand) (*UpdateTicketResult, error)
}

type DeleteTicketExecutor interface {
	Execute(ctx context.Context, cmd DeleteTicketCommand) (*DeleteTicketResult, error)
}

type AddReplyExecutor interface {
	Execute(ctx context.Context, cmd AddReplyCommand) (*AddReplyResult, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDetailDTO, error)
}

// NotificationDispatcher runs the notification flows inside the caller's
// transaction.
type NotificationDispatcher interface {
	NotifyCreated(ctx context.Context, p notification.Parties, actorID uint) (*uint, error)
	NotifyEdited(ctx context.Context, p notification.Parties, editorID uint) error
	NotifyOperatorChanged(ctx context.Context, p notification.Parties, previousID *uint, actorID uint) error
	NotifyReplied(ctx context.Context, p notification.Parties, authorID uint) error
}

// EditRecorder appends audit rows.
type EditRecorder interface {
	RecordCreated(ctx context.Context, t *ticket.Ticket, actorID uint) error
	RecordUpdate(ctx context.Context, ticketID, actorID uint, diff ticket.Diff) error
	RecordReply(ctx context.Context, ticketID, actorID uint, oldStatus, newStatus vo.TicketStatus) error
}

// TrackerClient is the outbound side of the work item sync.
type TrackerClient interface {
	CreateWorkItem(ctx context.Context, ticketID uint, draft workitem.Draft) (int, error)
	UpdateWorkItem(ctx context.Context, workItemID int, draft workitem.Draft) error
	// UpdateOperatorOnWorkItem sets the assignee; an empty email clears it.
	UpdateOperatorOnWorkItem(ctx context.Context, workItemID int, assigneeEmail string) error
	AddComment(ctx context.Context, workItemID int, author, message string) error
	AddAttachment(ctx context.Context, workItemID int, path string) error
	DeleteWorkItem(ctx context.Context, workItemID int) error
}

type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// partiesOf captures who the ticket concerns right now.
func partiesOf(t *ticket.Ticket) notification.Parties {
	return notification.Parties{
		TicketID:   t.ID(),
		PlatformID: t.PlatformID(),
		Title:      t.Title(),
		CreatorID:  t.CreatorID(),
		OperatorID: t.OperatorID(),
	}
}
