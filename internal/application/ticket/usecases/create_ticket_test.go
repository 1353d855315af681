package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketsync/ticketsync/internal/domain/notification"
	"github.com/ticketsync/ticketsync/internal/domain/shared/events"
	vo "github.com/ticketsync/ticketsync/internal/domain/ticket/valueobjects"
	"github.com/ticketsync/ticketsync/internal/domain/workitem"
	apperrors "github.com/ticketsync/ticketsync/internal/shared/errors"
)

type createFixture struct {
	repo        *mockTicketRepository
	edits       *mockEditRepository
	notifier    *mockNotifier
	tracker     *mockTracker
	broadcaster *mockBroadcaster
	metrics     *mockMetrics
}

func newCreateFixture() *createFixture {
	return &createFixture{
		repo:        newMockTicketRepository(),
		edits:       &mockEditRepository{},
		notifier:    &mockNotifier{},
		tracker:     &mockTracker{},
		broadcaster: &mockBroadcaster{},
		metrics:     &mockMetrics{},
	}
}

func (f *createFixture) useCase(tracker TrackerClient) *CreateTicketUseCase {
	log := &mockLogger{}
	return NewCreateTicketUseCase(
		f.repo,
		&mockPlatformReader{},
		testUsers(),
		f.notifier,
		NewAuditTrail(f.edits, log),
		tracker,
		&mockTxManager{},
		f.broadcaster,
		f.metrics,
		log,
	)
}

func validCreateCommand() CreateTicketCommand {
	return CreateTicketCommand{
		Type:        "bug",
		Title:       "Login broken",
		Description: "Cannot log in since this morning",
		Priority:    "high",
		PlatformID:  testPlatformID,
		CreatorID:   testCreatorID,
		Origin:      OriginAPI,
	}
}

func TestCreateTicketUseCase_AssignsChosenOperator(t *testing.T) {
	f := newCreateFixture()
	f.notifier.NotifyCreatedFunc = func(ctx context.Context, p notification.Parties, actorID uint) (*uint, error) {
		assert.Equal(t, testPlatformID, p.PlatformID)
		assert.Nil(t, p.OperatorID)
		return uintPtr(testOperatorA), nil
	}

	result, err := f.useCase(f.tracker).Execute(context.Background(), validCreateCommand())
	require.NoError(t, err)

	assert.Equal(t, vo.StatusWaitingOperator.String(), result.Status)
	require.NotNil(t, result.OperatorID)
	assert.Equal(t, testOperatorA, *result.OperatorID)
	require.NotNil(t, result.WorkItemID)
	assert.Equal(t, 500, *result.WorkItemID)
	assert.True(t, result.TrackerSync.Synced)
	assert.False(t, result.TrackerSync.Degraded())

	stored := f.repo.stored(result.TicketID)
	require.NotNil(t, stored)
	assert.Equal(t, vo.StatusWaitingOperator, stored.Status())
	assert.Equal(t, 500, *stored.WorkItemID())

	require.Len(t, f.edits.edits, 1)
	assert.Equal(t, vo.StatusUnassigned, f.edits.edits[0].OldStatus())
	assert.Equal(t, vo.StatusWaitingOperator, f.edits.edits[0].NewStatus())

	assert.Equal(t, []string{"create", "operator:op.a@example.com"}, f.tracker.calls)
	assert.Contains(t, f.broadcaster.calls, broadcastCall{Topic: events.TopicTickets, Event: events.TicketCreated})
	assert.Equal(t, []string{"create/api/success"}, f.metrics.operations)
}

func TestCreateTicketUseCase_NoOperatorStaysUnassigned(t *testing.T) {
	f := newCreateFixture()

	result, err := f.useCase(f.tracker).Execute(context.Background(), validCreateCommand())
	require.NoError(t, err)

	assert.Equal(t, vo.StatusUnassigned.String(), result.Status)
	assert.Nil(t, result.OperatorID)
	assert.Equal(t, []string{"create"}, f.tracker.calls)
}

func TestCreateTicketUseCase_WebhookOriginDoesNotPush(t *testing.T) {
	f := newCreateFixture()
	cmd := validCreateCommand()
	cmd.Origin = OriginWebhook
	cmd.WorkItemID = intPtr(42)

	result, err := f.useCase(f.tracker).Execute(context.Background(), cmd)
	require.NoError(t, err)

	assert.Empty(t, f.tracker.calls)
	assert.False(t, result.TrackerSync.Attempted)
	require.NotNil(t, result.WorkItemID)
	assert.Equal(t, 42, *result.WorkItemID)
}

func TestCreateTicketUseCase_TrackerFailureIsDegraded(t *testing.T) {
	f := newCreateFixture()
	f.tracker.CreateWorkItemFunc = func(ctx context.Context, ticketID uint, draft workitem.Draft) (int, error) {
		assert.Equal(t, workitem.TypeIssue, draft.Type)
		assert.Equal(t, 1, draft.Priority)
		return 0, errors.New("tracker unavailable")
	}

	result, err := f.useCase(f.tracker).Execute(context.Background(), validCreateCommand())
	require.NoError(t, err)

	assert.True(t, result.TrackerSync.Degraded())
	assert.Equal(t, "tracker unavailable", result.TrackerSync.Error)
	assert.Nil(t, result.WorkItemID)
	assert.NotNil(t, f.repo.stored(result.TicketID))
	assert.Equal(t, []string{"create/api/degraded"}, f.metrics.operations)
}

func TestCreateTicketUseCase_DisabledTracker(t *testing.T) {
	f := newCreateFixture()

	result, err := f.useCase(nil).Execute(context.Background(), validCreateCommand())
	require.NoError(t, err)
	assert.False(t, result.TrackerSync.Attempted)
}

func TestCreateTicketUseCase_DuplicateWorkItemConflicts(t *testing.T) {
	f := newCreateFixture()
	seedTicket(f.repo, 1, vo.StatusUnassigned, nil, intPtr(42))

	cmd := validCreateCommand()
	cmd.Origin = OriginWebhook
	cmd.WorkItemID = intPtr(42)

	_, err := f.useCase(f.tracker).Execute(context.Background(), cmd)
	assert.True(t, apperrors.IsConflictError(err))
	assert.Empty(t, f.notifier.created)
}

func TestCreateTicketUseCase_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CreateTicketCommand)
	}{
		{"missing creator", func(c *CreateTicketCommand) { c.CreatorID = 0 }},
		{"missing platform", func(c *CreateTicketCommand) { c.PlatformID = 0 }},
		{"unknown platform", func(c *CreateTicketCommand) { c.PlatformID = 999 }},
		{"bad type", func(c *CreateTicketCommand) { c.Type = "chore" }},
		{"bad priority", func(c *CreateTicketCommand) { c.Priority = "urgent" }},
		{"empty title", func(c *CreateTicketCommand) { c.Title = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCreateFixture()
			cmd := validCreateCommand()
			tt.modify(&cmd)

			_, err := f.useCase(f.tracker).Execute(context.Background(), cmd)
			assert.True(t, apperrors.IsValidationError(err), "got %v", err)
			assert.Empty(t, f.tracker.calls)
		})
	}
}

func TestCreateTicketUseCase_NotifierFailureAborts(t *testing.T) {
	f := newCreateFixture()
	f.notifier.NotifyCreatedFunc = func(ctx context.Context, p notification.Parties, actorID uint) (*uint, error) {
		return nil, errors.New("db down")
	}

	_, err := f.useCase(f.tracker).Execute(context.Background(), validCreateCommand())
	assert.Error(t, err)
	assert.Empty(t, f.tracker.calls)
	assert.Empty(t, f.broadcaster.calls)
}
