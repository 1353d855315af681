package usecases

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ticketUsecases "github.com/ticketsync/ticketsync/internal/application/ticket/usecases"
	"github.com/ticketsync/ticketsync/internal/domain/ticket"
	vo "github.com/ticketsync/ticketsync/internal/domain/ticket/valueobjects"
	apperrors "github.com/ticketsync/ticketsync/internal/shared/errors"
	"github.com/ticketsync/ticketsync/internal/shared/services/markdown"
)

const servicePrincipal = "9a8b7c6d-sp"

type syncFixture struct {
	finder  *mockTicketFinder
	create  *mockCreate
	update  *mockUpdate
	delete  *mockDelete
	journal *mockJournal
	metrics *mockMetrics
	uc      *HandleDeliveryUseCase
}

func newSyncFixture(existing ...*ticket.Ticket) *syncFixture {
	f := &syncFixture{
		finder:  &mockTicketFinder{byWorkItem: map[int]*ticket.Ticket{}},
		create:  &mockCreate{},
		update:  &mockUpdate{},
		delete:  &mockDelete{},
		journal: &mockJournal{},
		metrics: &mockMetrics{},
	}
	for _, t := range existing {
		f.finder.byWorkItem[*t.WorkItemID()] = t
	}
	sync := NewWebhookSync(
		f.finder,
		&mockPlatformFinder{},
		testIdentities(),
		markdown.NewDescriptionSanitizer(markdown.DefaultSanitizeTimeout),
		Lifecycle{Create: f.create, Update: f.update, Delete: f.delete},
		servicePrincipal,
		&mockLogger{},
	)
	f.uc = NewHandleDeliveryUseCase(sync, f.journal, f.metrics, &mockLogger{})
	return f
}

func createdBody(workItemID int, createdBy, project, wiType, state string) []byte {
	return []byte(fmt.Sprintf(`{
  "id": "evt-1",
  "eventType": "workitem.created",
  "resource": {
    "id": %d,
    "fields": {
      "System.CreatedDate": "2026-03-04T10:15:30.123Z",
      "System.CreatedBy": %q,
      "System.TeamProject": %q,
      "System.WorkItemType": %q,
      "System.Title": "Crash on start",
      "System.Description": "<p>Hello **world**</p>",
      "Microsoft.VSTS.Common.Priority": 2,
      "System.State": %q
    }
  }
}`, workItemID, createdBy, project, wiType, state))
}

func updatedBody(workItemID int, changedBy, state, assignedTo string) []byte {
	assigned := ""
	if assignedTo != "" {
		assigned = fmt.Sprintf(`, "System.AssignedTo": %q`, assignedTo)
	}
	return []byte(fmt.Sprintf(`{
  "eventType": "workitem.updated",
  "resource": {
    "workItemId": %d,
    "revision": {
      "id": %d,
      "fields": {
        "System.ChangedBy": %q,
        "System.WorkItemType": "Task",
        "System.Title": "Crash on start",
        "System.Description": "# Steps\n- open app",
        "Microsoft.VSTS.Common.Priority": 4,
        "System.State": %q%s
      }
    }
  }
}`, workItemID, workItemID, changedBy, state, assigned))
}

func deletedBody(workItemID int, changedBy string) []byte {
	return []byte(fmt.Sprintf(`{
  "eventType": "workitem.deleted",
  "resource": {"id": %d, "fields": {"System.ChangedBy": %q}}
}`, workItemID, changedBy))
}

func TestHandleDelivery_CreatedMapsFields(t *testing.T) {
	f := newSyncFixture()

	result, err := f.uc.Execute(context.Background(), KindCreated,
		createdBody(42, "Jane Doe <JANE@example.com>", "Portal", "Issue", "Doing"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, result.Outcome)
	assert.Equal(t, uint(31), result.TicketID)

	require.Len(t, f.create.cmds, 1)
	cmd := f.create.cmds[0]
	assert.Equal(t, "bug", cmd.Type)
	assert.Equal(t, "medium", cmd.Priority)
	assert.Equal(t, "Hello world", cmd.Description)
	assert.Equal(t, uint(7), cmd.PlatformID)
	assert.Equal(t, uint(1), cmd.CreatorID)
	assert.Equal(t, 42, *cmd.WorkItemID)
	assert.Equal(t, ticketUsecases.OriginWebhook, cmd.Origin)
	assert.Equal(t, time.Date(2026, 3, 4, 10, 15, 30, 123000000, time.UTC), cmd.CreatedAt)

	require.Len(t, f.journal.deliveries, 1)
	assert.Equal(t, "created", f.journal.deliveries[0].Outcome)
	assert.Equal(t, 42, f.journal.deliveries[0].WorkItemID)
	assert.Equal(t, []string{"created/created"}, f.metrics.webhook)
}

func TestHandleDelivery_SelfEchoIsIgnored(t *testing.T) {
	f := newSyncFixture()

	result, err := f.uc.Execute(context.Background(), KindCreated,
		createdBody(42, "Ticket Sync <"+servicePrincipal+">", "Portal", "Issue", "To Do"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, result.Outcome)
	assert.Empty(t, f.create.cmds)
	assert.Equal(t, "ignored", f.journal.deliveries[0].Outcome)
}

func TestHandleDelivery_DuplicateCreationConflicts(t *testing.T) {
	f := newSyncFixture(linkedTicket(5, 42, vo.StatusUnassigned, nil))

	_, err := f.uc.Execute(context.Background(), KindCreated,
		createdBody(42, "jane@example.com", "Portal", "Issue", "To Do"))
	assert.True(t, apperrors.IsConflictError(err))
	assert.Empty(t, f.create.cmds)
	assert.Equal(t, "conflict", f.journal.deliveries[0].Outcome)
}

func TestHandleDelivery_CreatedRejections(t *testing.T) {
	tests := []struct {
		name    string
		body    []byte
		mapping bool
	}{
		{"unknown project", createdBody(42, "jane@example.com", "Nope", "Issue", "To Do"), false},
		{"unknown user", createdBody(42, "ghost@example.com", "Portal", "Issue", "To Do"), false},
		{"ambiguous user", createdBody(42, "jane@example.com op@example.com", "Portal", "Issue", "To Do"), false},
		{"unknown type", createdBody(42, "jane@example.com", "Portal", "Bug", "To Do"), true},
		{"unknown state", createdBody(42, "jane@example.com", "Portal", "Issue", "Blocked"), true},
		{"missing fields", []byte(`{"eventType":"workitem.created","resource":{"id":42,"fields":{"System.Title":"x"}}}`), false},
		{"wrong event type", []byte(`{"eventType":"workitem.deleted","resource":{"id":42}}`), false},
		{"malformed json", []byte(`{"eventType":`), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSyncFixture()
			_, err := f.uc.Execute(context.Background(), KindCreated, tt.body)
			require.Error(t, err)
			if tt.mapping {
				assert.True(t, apperrors.IsMappingError(err), "got %v", err)
			} else {
				assert.True(t, apperrors.IsValidationError(err), "got %v", err)
			}
			assert.Equal(t, 400, apperrors.GetAppError(err).Code)
			assert.Empty(t, f.create.cmds)
			require.Len(t, f.journal.deliveries, 1)
		})
	}
}

func TestHandleDelivery_Updated(t *testing.T) {
	f := newSyncFixture(linkedTicket(5, 42, vo.StatusWaitingOperator, nil))

	result, err := f.uc.Execute(context.Background(), KindUpdated,
		updatedBody(42, "Jane <jane@example.com>", "Doing", "Op <op@example.com>"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, result.Outcome)

	require.Len(t, f.update.cmds, 1)
	cmd := f.update.cmds[0]
	assert.Equal(t, uint(5), cmd.TicketID)
	assert.Equal(t, uint(1), cmd.RequesterID)
	assert.Equal(t, "feature", cmd.Type)
	assert.Equal(t, "low", cmd.Priority)
	assert.Equal(t, "waiting_operator", cmd.Status)
	assert.Equal(t, "Steps\nopen app", cmd.Description)
	require.NotNil(t, cmd.OperatorID)
	assert.Equal(t, uint(2), *cmd.OperatorID)
	assert.Equal(t, ticketUsecases.OriginWebhook, cmd.Origin)
}

func TestHandleDelivery_UpdatedKeepsWaitingUser(t *testing.T) {
	f := newSyncFixture(linkedTicket(5, 42, vo.StatusWaitingUser, nil))

	_, err := f.uc.Execute(context.Background(), KindUpdated,
		updatedBody(42, "jane@example.com", "Doing", "op@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "waiting_user", f.update.cmds[0].Status)
}

func TestHandleDelivery_UpdatedWithoutAssigneeUnassigns(t *testing.T) {
	f := newSyncFixture(linkedTicket(5, 42, vo.StatusWaitingOperator, nil))

	_, err := f.uc.Execute(context.Background(), KindUpdated, updatedBody(42, "jane@example.com", "To Do", ""))
	require.NoError(t, err)
	assert.Nil(t, f.update.cmds[0].OperatorID)
	assert.Equal(t, "unassigned", f.update.cmds[0].Status)
}

func TestHandleDelivery_UpdatedUnknownWorkItem(t *testing.T) {
	f := newSyncFixture()

	_, err := f.uc.Execute(context.Background(), KindUpdated, updatedBody(42, "jane@example.com", "Doing", ""))
	assert.True(t, apperrors.IsNotFoundError(err))
	assert.Empty(t, f.update.cmds)
}

func TestHandleDelivery_UpdatedSelfEcho(t *testing.T) {
	f := newSyncFixture(linkedTicket(5, 42, vo.StatusWaitingOperator, nil))

	result, err := f.uc.Execute(context.Background(), KindUpdated,
		updatedBody(42, "Ticket Sync ["+servicePrincipal+"]", "Done", ""))
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, result.Outcome)
	assert.Empty(t, f.update.cmds)
}

func TestHandleDelivery_Deleted(t *testing.T) {
	f := newSyncFixture(linkedTicket(5, 42, vo.StatusClosed, nil))

	result, err := f.uc.Execute(context.Background(), KindDeleted, deletedBody(42, "Op <op@example.com>"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeleted, result.Outcome)
	require.Len(t, f.delete.cmds, 1)
	assert.Equal(t, uint(5), f.delete.cmds[0].TicketID)
	assert.Equal(t, uint(2), f.delete.cmds[0].RequesterID)
	assert.Equal(t, ticketUsecases.OriginWebhook, f.delete.cmds[0].Origin)

	_, err = f.uc.Execute(context.Background(), KindDeleted, deletedBody(43, "op@example.com"))
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestHandleDelivery_JournalFailureDoesNotFailDelivery(t *testing.T) {
	f := newSyncFixture()
	f.journal.err = errors.New("disk full")

	result, err := f.uc.Execute(context.Background(), KindCreated,
		createdBody(42, "jane@example.com", "Portal", "Epic", "To Do"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, result.Outcome)
	assert.Equal(t, "feature", f.create.cmds[0].Type)
}
