package usecases

import (
	"context"
	"fmt"

	"github.com/ticketsync/ticketsync/internal/application/common"
	"github.com/ticketsync/ticketsync/internal/domain/notification"
	"github.com/ticketsync/ticketsync/internal/domain/shared/events"
	"github.com/ticketsync/ticketsync/internal/domain/user"
	"github.com/ticketsync/ticketsync/internal/shared/db"
	"github.com/ticketsync/ticketsync/internal/shared/goroutine"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
	"github.com/ticketsync/ticketsync/internal/shared/utils/logutil"
	"github.com/ticketsync/ticketsync/internal/shared/utils/setutil"
)

// Notification flows, used as metric labels.
const (
	FlowCreated    = "created"
	FlowAssigned   = "assigned"
	FlowUnassigned = "unassigned"
	FlowEdited     = "edited"
	FlowReplied    = "replied"
)

// Dispatcher decides who hears about a ticket change and persists one
// Notification per message with a UserNotification per receiver. Real-time
// pushes and e-mails are deferred until the surrounding transaction commits.
type Dispatcher struct {
	repo        notification.Repository
	users       UserDirectory
	assigner    AssignmentRecommender
	broadcaster events.Broadcaster
	mailer      Mailer
	metrics     common.MetricsRecorder
	logger      logger.Interface
}

func NewDispatcher(
	repo notification.Repository,
	users UserDirectory,
	assigner AssignmentRecommender,
	broadcaster events.Broadcaster,
	metrics common.MetricsRecorder,
	logger logger.Interface,
) *Dispatcher {
	if broadcaster == nil {
		broadcaster = events.NoopBroadcaster{}
	}
	if metrics == nil {
		metrics = common.NoopMetrics{}
	}
	return &Dispatcher{
		repo:        repo,
		users:       users,
		assigner:    assigner,
		broadcaster: broadcaster,
		metrics:     metrics,
		logger:      logger,
	}
}

// WithMailer enables e-mail copies.
func (d *Dispatcher) WithMailer(m Mailer) *Dispatcher {
	d.mailer = m
	return d
}

// NotifyCreated runs the creation flow and returns the operator chosen by
// auto-assignment, or nil when the ticket stays unassigned.
func (d *Dispatcher) NotifyCreated(ctx context.Context, p notification.Parties, actorID uint) (*uint, error) {
	if err := d.fanOut(ctx, FlowCreated, p.TicketID, actorID,
		fmt.Sprintf("Ticket #%d %q was created", p.TicketID, p.Title),
		[]uint{p.CreatorID},
	); err != nil {
		return nil, err
	}

	pool, err := d.users.ListOperatorPool(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list operator pool: %w", err)
	}
	poolIDs := userIDs(pool)

	chosen, err := d.assigner.Recommend(ctx, p.PlatformID, poolIDs)
	if err != nil {
		return nil, err
	}

	if chosen == nil {
		d.logger.Infow("no operator chosen, notifying operator pool",
			"ticket_id", p.TicketID,
			"pool_size", len(poolIDs),
		)
		if err := d.fanOut(ctx, FlowCreated, p.TicketID, actorID,
			fmt.Sprintf("New ticket #%d %q is waiting for an operator", p.TicketID, p.Title),
			poolIDs,
		); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if err := d.fanOut(ctx, FlowAssigned, p.TicketID, actorID,
		fmt.Sprintf("Ticket #%d %q was assigned to you by the system", p.TicketID, p.Title),
		[]uint{*chosen},
	); err != nil {
		return nil, err
	}
	if err := d.fanOut(ctx, FlowAssigned, p.TicketID, actorID,
		fmt.Sprintf("Ticket #%d %q was assigned to %s", p.TicketID, p.Title, displayName(pool, *chosen)),
		[]uint{p.CreatorID},
	); err != nil {
		return nil, err
	}
	return chosen, nil
}

// NotifyEdited runs the edit flow for a change made by editorID.
func (d *Dispatcher) NotifyEdited(ctx context.Context, p notification.Parties, editorID uint) error {
	recipients, err := d.editRecipients(ctx, p, editorID)
	if err != nil {
		return err
	}
	return d.fanOut(ctx, FlowEdited, p.TicketID, editorID,
		fmt.Sprintf("Ticket #%d %q was updated", p.TicketID, p.Title),
		recipients,
	)
}

// NotifyReplied tells the other parties about a new reply.
func (d *Dispatcher) NotifyReplied(ctx context.Context, p notification.Parties, authorID uint) error {
	recipients, err := d.editRecipients(ctx, p, authorID)
	if err != nil {
		return err
	}
	return d.fanOut(ctx, FlowReplied, p.TicketID, authorID,
		fmt.Sprintf("New reply on ticket #%d %q", p.TicketID, p.Title),
		recipients,
	)
}

// NotifyOperatorChanged runs the operator flow. p.OperatorID is the new
// operator, previousID the one being replaced. Each party gets its own
// notification even when one person plays several roles.
func (d *Dispatcher) NotifyOperatorChanged(ctx context.Context, p notification.Parties, previousID *uint, actorID uint) error {
	if !p.HasOperator() {
		if err := d.fanOut(ctx, FlowUnassigned, p.TicketID, actorID,
			fmt.Sprintf("Ticket #%d %q was unassigned", p.TicketID, p.Title),
			[]uint{p.CreatorID},
		); err != nil {
			return err
		}
		poolIDs, err := d.poolIDs(ctx)
		if err != nil {
			return err
		}
		return d.fanOut(ctx, FlowUnassigned, p.TicketID, actorID,
			fmt.Sprintf("Ticket #%d %q is waiting for an operator", p.TicketID, p.Title),
			poolIDs,
		)
	}

	operatorID := *p.OperatorID
	name := fmt.Sprintf("user #%d", operatorID)
	if found, err := d.users.ListByIDs(ctx, []uint{operatorID}); err == nil && len(found) == 1 {
		name = found[0].DisplayName()
	}

	if err := d.fanOut(ctx, FlowAssigned, p.TicketID, actorID,
		fmt.Sprintf("Ticket #%d %q was assigned to you", p.TicketID, p.Title),
		[]uint{operatorID},
	); err != nil {
		return err
	}
	if err := d.fanOut(ctx, FlowAssigned, p.TicketID, actorID,
		fmt.Sprintf("Ticket #%d %q was assigned to %s", p.TicketID, p.Title, name),
		[]uint{p.CreatorID},
	); err != nil {
		return err
	}
	if previousID == nil || *previousID == 0 {
		return nil
	}
	return d.fanOut(ctx, FlowAssigned, p.TicketID, actorID,
		fmt.Sprintf("Ticket #%d %q was reassigned to %s", p.TicketID, p.Title, name),
		[]uint{*previousID},
	)
}

// editRecipients: the creator editing reaches the operator (or the pool),
// the operator editing reaches the creator, anyone else reaches both.
func (d *Dispatcher) editRecipients(ctx context.Context, p notification.Parties, editorID uint) ([]uint, error) {
	operatorOrPool := func() ([]uint, error) {
		if p.HasOperator() {
			return []uint{*p.OperatorID}, nil
		}
		return d.poolIDs(ctx)
	}

	switch {
	case editorID == p.CreatorID:
		return operatorOrPool()
	case p.HasOperator() && editorID == *p.OperatorID:
		return []uint{p.CreatorID}, nil
	default:
		others, err := operatorOrPool()
		if err != nil {
			return nil, err
		}
		return append([]uint{p.CreatorID}, others...), nil
	}
}

func (d *Dispatcher) poolIDs(ctx context.Context) ([]uint, error) {
	pool, err := d.users.ListOperatorPool(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list operator pool: %w", err)
	}
	return userIDs(pool), nil
}

func (d *Dispatcher) fanOut(ctx context.Context, flow string, ticketID, actorID uint, message string, recipients []uint) error {
	receivers := setutil.NewUintSet()
	for _, id := range recipients {
		if id != 0 {
			receivers.Add(id)
		}
	}
	if receivers.Len() == 0 {
		d.logger.Debugw("notification has no receivers", "ticket_id", ticketID, "flow", flow)
		return nil
	}

	n, err := notification.NewNotification(ticketID, actorID, message)
	if err != nil {
		return fmt.Errorf("failed to build notification: %w", err)
	}

	rows, err := d.repo.CreateWithRecipients(ctx, n, receivers.ToSlice())
	if err != nil {
		d.logger.Errorw("failed to persist notification", "ticket_id", ticketID, "flow", flow, "error", err)
		return fmt.Errorf("failed to persist notification: %w", err)
	}
	d.metrics.RecordNotification(flow, len(rows))

	var mailTo []*user.User
	if d.mailer != nil {
		mailTo, err = d.users.ListByIDs(ctx, receivers.ToSlice())
		if err != nil {
			d.logger.Warnw("failed to resolve e-mail receivers", "ticket_id", ticketID, "error", err)
		}
	}

	pushCtx := context.WithoutCancel(ctx)
	db.AfterCommit(ctx, func() {
		for _, row := range rows {
			d.broadcaster.Broadcast(pushCtx, events.UserTopic(row.ReceiverID()), events.UserNotificationCreated,
				events.UserNotificationPayload{
					ID:             row.ID(),
					NotificationID: n.ID(),
					TicketID:       ticketID,
					Message:        message,
				})
		}
		if len(mailTo) > 0 {
			d.sendEmails(ticketID, message, mailTo)
		}
	})

	d.logger.Infow("notification dispatched",
		"ticket_id", ticketID,
		"notification_id", n.ID(),
		"flow", flow,
		"receivers", len(rows),
	)
	return nil
}

func (d *Dispatcher) sendEmails(ticketID uint, message string, receivers []*user.User) {
	subject := fmt.Sprintf("Ticket #%d", ticketID)
	goroutine.SafeGo(d.logger, "notification-email", func() {
		for _, u := range receivers {
			if err := d.mailer.SendNotificationEmail(u.Email(), subject, message); err != nil {
				d.logger.Warnw("failed to send notification e-mail",
					"ticket_id", ticketID,
					"user_id", u.ID(),
					"to", logutil.MaskEmail(u.Email()),
					"error", err,
				)
			}
		}
	})
}

func userIDs(users []*user.User) []uint {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID())
	}
	return ids
}

func displayName(users []*user.User, id uint) string {
	for _, u := range users {
		if u.ID() == id {
			return u.DisplayName()
		}
	}
	return fmt.Sprintf("user #%d", id)
}
