package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketsync/ticketsync/internal/application/tracker/usecases"
	"github.com/ticketsync/ticketsync/internal/interfaces/http/handlers/testutil"
	"github.com/ticketsync/ticketsync/internal/shared/errors"
)

type mockDeliveryHandler struct {
	kind    string
	payload []byte
	result  *usecases.SyncResult
	err     error
}

func (m *mockDeliveryHandler) Execute(_ context.Context, kind string, payload []byte) (*usecases.SyncResult, error) {
	m.kind = kind
	m.payload = payload
	return m.result, m.err
}

const samplePayload = `{"id":"evt-1","eventType":"workitem.updated","resource":{"workItemId":42}}`

func TestHandler_RoutesKindAndStatus(t *testing.T) {
	tests := []struct {
		name    string
		route   func(h *Handler) gin.HandlerFunc
		kind    string
		outcome usecases.Outcome
		want    int
	}{
		{
			name:    "created",
			route:   func(h *Handler) gin.HandlerFunc { return h.TicketCreated },
			kind:    usecases.KindCreated,
			outcome: usecases.OutcomeCreated,
			want:    http.StatusCreated,
		},
		{
			name:    "updated",
			route:   func(h *Handler) gin.HandlerFunc { return h.TicketUpdated },
			kind:    usecases.KindUpdated,
			outcome: usecases.OutcomeUpdated,
			want:    http.StatusNoContent,
		},
		{
			name:    "deleted",
			route:   func(h *Handler) gin.HandlerFunc { return h.TicketDeleted },
			kind:    usecases.KindDeleted,
			outcome: usecases.OutcomeDeleted,
			want:    http.StatusNoContent,
		},
		{
			name:    "ignored",
			route:   func(h *Handler) gin.HandlerFunc { return h.TicketUpdated },
			kind:    usecases.KindUpdated,
			outcome: usecases.OutcomeIgnored,
			want:    http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockDeliveryHandler{result: &usecases.SyncResult{Outcome: tt.outcome, TicketID: 7, WorkItemID: 42}}
			h := NewHandler(mock, testutil.NewMockLogger())

			c, w := testutil.NewTestContext(http.MethodPost, "/webhook/ticket/"+tt.kind, samplePayload)
			tt.route(h)(c)

			assert.Equal(t, tt.want, testutil.StatusOf(c, w))
			assert.Equal(t, tt.kind, mock.kind)
			assert.JSONEq(t, samplePayload, string(mock.payload))
		})
	}
}

func TestHandler_IgnoredCarriesReason(t *testing.T) {
	mock := &mockDeliveryHandler{result: &usecases.SyncResult{
		Outcome:    usecases.OutcomeIgnored,
		WorkItemID: 42,
		Reason:     "self echo",
	}}
	h := NewHandler(mock, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/webhook/ticket/updated", samplePayload)
	h.TicketUpdated(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var body DeliveryResponse
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	assert.Equal(t, "ignored", body.Outcome)
	assert.Equal(t, "self echo", body.Reason)
	assert.Equal(t, 42, body.WorkItemID)
}

func TestHandler_UseCaseErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "malformed", err: errors.NewValidationError("malformed webhook payload"), want: http.StatusBadRequest},
		{name: "unknown ticket", err: errors.NewNotFoundError("ticket not found"), want: http.StatusNotFound},
		{name: "conflict", err: errors.NewConflictError("ticket was modified concurrently"), want: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockDeliveryHandler{err: tt.err}
			h := NewHandler(mock, testutil.NewMockLogger())

			c, w := testutil.NewTestContext(http.MethodPost, "/webhook/ticket/updated", samplePayload)
			h.TicketUpdated(c)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHandler_RejectsOversizedPayload(t *testing.T) {
	mock := &mockDeliveryHandler{}
	h := NewHandler(mock, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/webhook/ticket/created", strings.Repeat("a", maxPayloadBytes+10))
	h.TicketCreated(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Empty(t, mock.kind)
}
