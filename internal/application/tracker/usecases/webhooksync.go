package usecases

import (
	"context"
	"fmt"
	"strings"

	ticketUsecases "github.com/ticketsync/ticketsync/internal/application/ticket/usecases"
	vo "github.com/ticketsync/ticketsync/internal/domain/ticket/valueobjects"
	"github.com/ticketsync/ticketsync/internal/domain/user"
	"github.com/ticketsync/ticketsync/internal/domain/workitem"
	"github.com/ticketsync/ticketsync/internal/shared/biztime"
	"github.com/ticketsync/ticketsync/internal/shared/errors"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
	"github.com/ticketsync/ticketsync/internal/shared/utils"
)

// WebhookSync turns tracker events into ticket lifecycle calls. Changes it
// makes are never pushed back to the tracker, and events authored by this
// service's own identity are acknowledged without effect.
type WebhookSync struct {
	tickets            TicketFinder
	platforms          PlatformFinder
	identities         IdentityResolver
	sanitizer          DescriptionSanitizer
	lifecycle          Lifecycle
	servicePrincipalID string
	logger             logger.Interface
}

func NewWebhookSync(
	tickets TicketFinder,
	platforms PlatformFinder,
	identities IdentityResolver,
	sanitizer DescriptionSanitizer,
	lifecycle Lifecycle,
	servicePrincipalID string,
	logger logger.Interface,
) *WebhookSync {
	return &WebhookSync{
		tickets:            tickets,
		platforms:          platforms,
		identities:         identities,
		sanitizer:          sanitizer,
		lifecycle:          lifecycle,
		servicePrincipalID: strings.TrimSpace(servicePrincipalID),
		logger:             logger,
	}
}

func (s *WebhookSync) HandleCreated(ctx context.Context, event *workitem.Event) (*SyncResult, error) {
	workItemID, err := s.checkEvent(event, workitem.EventCreated)
	if err != nil {
		return nil, err
	}
	fields, err := event.CreatedFields()
	if err != nil {
		return nil, errors.NewValidationError("invalid work item fields", err.Error())
	}
	if err := utils.ValidateStruct(fields); err != nil {
		return nil, err
	}

	if s.isSelfEcho(fields.CreatedBy) {
		return s.ignore(workItemID, "created by this service"), nil
	}

	existing, err := s.tickets.GetByWorkItemID(ctx, workItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up work item: %w", err)
	}
	if existing != nil {
		s.logger.Warnw("work item already has a ticket", "work_item_id", workItemID, "ticket_id", existing.ID())
		return nil, errors.NewConflictError("work item already has a ticket",
			fmt.Sprintf("ticket %d", existing.ID()))
	}

	p, err := s.platforms.GetByName(ctx, fields.TeamProject)
	if err != nil {
		return nil, fmt.Errorf("failed to look up platform: %w", err)
	}
	if p == nil {
		return nil, errors.NewValidationError("unknown team project", fields.TeamProject)
	}

	creator, err := s.resolveUser(ctx, fields.CreatedBy)
	if err != nil {
		return nil, err
	}

	createdAt, err := biztime.ParseTrackerTime(fields.CreatedDate)
	if err != nil {
		return nil, errors.NewValidationError("invalid created date", err.Error())
	}

	ticketType, err := workitem.TypeFromTracker(fields.WorkItemType)
	if err != nil {
		return nil, errors.NewMappingError(err.Error())
	}
	// the ticket starts unassigned whatever the tracker says; the state is
	// still checked so an unknown value rejects the event
	if _, err := workitem.StatusFromTracker(fields.State); err != nil {
		return nil, errors.NewMappingError(err.Error())
	}

	description, err := s.sanitize(ctx, fields.Description)
	if err != nil {
		return nil, err
	}

	result, err := s.lifecycle.Create.Execute(ctx, ticketUsecases.CreateTicketCommand{
		Type:        ticketType.String(),
		Title:       fields.Title,
		Description: description,
		Priority:    workitem.PriorityFromTracker(*fields.Priority).String(),
		PlatformID:  p.ID(),
		CreatorID:   creator.ID(),
		CreatedAt:   createdAt,
		WorkItemID:  &workItemID,
		Origin:      ticketUsecases.OriginWebhook,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("ticket created from work item", "work_item_id", workItemID, "ticket_id", result.TicketID)
	return &SyncResult{Outcome: OutcomeCreated, TicketID: result.TicketID, WorkItemID: workItemID}, nil
}

func (s *WebhookSync) HandleUpdated(ctx context.Context, event *workitem.Event) (*SyncResult, error) {
	workItemID, err := s.checkEvent(event, workitem.EventUpdated)
	if err != nil {
		return nil, err
	}
	fields, err := event.UpdatedFields()
	if err != nil {
		return nil, errors.NewValidationError("invalid work item fields", err.Error())
	}
	if err := utils.ValidateStruct(fields); err != nil {
		return nil, err
	}

	if s.isSelfEcho(fields.ChangedBy) {
		return s.ignore(workItemID, "changed by this service"), nil
	}

	existing, err := s.tickets.GetByWorkItemID(ctx, workItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up work item: %w", err)
	}
	if existing == nil {
		return nil, errors.NewNotFoundError("no ticket for work item", fmt.Sprintf("work item %d", workItemID))
	}

	requester, err := s.resolveUser(ctx, fields.ChangedBy)
	if err != nil {
		return nil, err
	}

	var operatorID *uint
	if !fields.AssignedTo.IsEmpty() {
		operator, err := s.resolveUser(ctx, fields.AssignedTo)
		if err != nil {
			return nil, err
		}
		id := operator.ID()
		operatorID = &id
	}

	ticketType, err := workitem.TypeFromTracker(fields.WorkItemType)
	if err != nil {
		return nil, errors.NewMappingError(err.Error())
	}
	status, err := workitem.StatusFromTracker(fields.State)
	if err != nil {
		return nil, errors.NewMappingError(err.Error())
	}
	// the tracker has one in-progress state for both waiting states
	if status == vo.StatusWaitingOperator && existing.Status() == vo.StatusWaitingUser {
		status = vo.StatusWaitingUser
	}

	description, err := s.sanitize(ctx, fields.Description)
	if err != nil {
		return nil, err
	}

	result, err := s.lifecycle.Update.Execute(ctx, ticketUsecases.UpdateTicketCommand{
		TicketID:    existing.ID(),
		RequesterID: requester.ID(),
		Type:        ticketType.String(),
		Title:       fields.Title,
		Description: description,
		Priority:    workitem.PriorityFromTracker(*fields.Priority).String(),
		Status:      status.String(),
		OperatorID:  operatorID,
		Origin:      ticketUsecases.OriginWebhook,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("ticket updated from work item",
		"work_item_id", workItemID,
		"ticket_id", result.TicketID,
		"changed", result.ChangedFields,
	)
	return &SyncResult{Outcome: OutcomeUpdated, TicketID: result.TicketID, WorkItemID: workItemID}, nil
}

func (s *WebhookSync) HandleDeleted(ctx context.Context, event *workitem.Event) (*SyncResult, error) {
	workItemID, err := s.checkEvent(event, workitem.EventDeleted)
	if err != nil {
		return nil, err
	}
	fields, err := event.DeletedFields()
	if err != nil {
		return nil, errors.NewValidationError("invalid work item fields", err.Error())
	}
	if err := utils.ValidateStruct(fields); err != nil {
		return nil, err
	}

	if s.isSelfEcho(fields.ChangedBy) {
		return s.ignore(workItemID, "deleted by this service"), nil
	}

	existing, err := s.tickets.GetByWorkItemID(ctx, workItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up work item: %w", err)
	}
	if existing == nil {
		return nil, errors.NewNotFoundError("no ticket for work item", fmt.Sprintf("work item %d", workItemID))
	}

	requester, err := s.resolveUser(ctx, fields.ChangedBy)
	if err != nil {
		return nil, err
	}

	result, err := s.lifecycle.Delete.Execute(ctx, ticketUsecases.DeleteTicketCommand{
		TicketID:    existing.ID(),
		RequesterID: requester.ID(),
		Origin:      ticketUsecases.OriginWebhook,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("ticket deleted from work item", "work_item_id", workItemID, "ticket_id", result.TicketID)
	return &SyncResult{Outcome: OutcomeDeleted, TicketID: result.TicketID, WorkItemID: workItemID}, nil
}

func (s *WebhookSync) checkEvent(event *workitem.Event, want string) (int, error) {
	if event == nil {
		return 0, errors.NewValidationError("event is required")
	}
	if event.EventType != want {
		return 0, errors.NewValidationError("unexpected event type",
			fmt.Sprintf("got %q, want %q", event.EventType, want))
	}
	id := event.WorkItemID()
	if id <= 0 {
		return 0, errors.NewValidationError("work item id is required")
	}
	return id, nil
}

func (s *WebhookSync) isSelfEcho(actor workitem.Identity) bool {
	return s.servicePrincipalID != "" && actor.Contains(s.servicePrincipalID)
}

func (s *WebhookSync) ignore(workItemID int, reason string) *SyncResult {
	s.logger.Infow("ignoring self-originated work item event", "work_item_id", workItemID, "reason", reason)
	return &SyncResult{Outcome: OutcomeIgnored, WorkItemID: workItemID, Reason: reason}
}

// resolveUser finds the single user whose e-mail occurs in the identity.
func (s *WebhookSync) resolveUser(ctx context.Context, identity workitem.Identity) (*user.User, error) {
	matches, err := s.identities.FindByEmailWithin(ctx, identity.String())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, errors.NewValidationError("no user matches tracker identity", identity.String())
	default:
		return nil, errors.NewValidationError("tracker identity matches several users", identity.String())
	}
}

func (s *WebhookSync) sanitize(ctx context.Context, description string) (string, error) {
	plain, err := s.sanitizer.Sanitize(ctx, description)
	if err != nil {
		s.logger.Warnw("description sanitization failed", "error", err)
		return "", errors.NewValidationError("description could not be sanitized", err.Error())
	}
	return plain, nil
}
