package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketsync/ticketsync/internal/domain/workitem"
	"github.com/ticketsync/ticketsync/internal/interfaces/http/handlers/testutil"
)

type mockDeliveryLister struct {
	limit int
	list  []*workitem.Delivery
	err   error
}

func (m *mockDeliveryLister) ListRecent(_ context.Context, limit int) ([]*workitem.Delivery, error) {
	m.limit = limit
	return m.list, m.err
}

func TestDeliveryHandler_ListRecent(t *testing.T) {
	lister := &mockDeliveryLister{list: []*workitem.Delivery{
		{ID: 2, Kind: "updated", WorkItemID: 42, Outcome: "ignored", Payload: []byte(`{"id":"evt-2"}`), ReceivedAt: time.Now()},
		{ID: 1, Kind: "created", Outcome: "validation_error", Error: "malformed webhook payload", ReceivedAt: time.Now()},
	}}
	h := NewDeliveryHandler(lister, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/admin/webhook-deliveries", nil)
	testutil.SetQueryParams(c, map[string]string{"limit": "10"})

	h.ListRecent(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, lister.limit)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var items []DeliveryResponse
	require.NoError(t, json.Unmarshal(resp.Data, &items))
	require.Len(t, items, 2)
	assert.JSONEq(t, `{"id":"evt-2"}`, string(items[0].Payload))
	assert.Equal(t, "null", string(items[1].Payload))
	assert.Equal(t, "malformed webhook payload", items[1].Error)
}

func TestDeliveryHandler_DefaultLimit(t *testing.T) {
	lister := &mockDeliveryLister{}
	h := NewDeliveryHandler(lister, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/admin/webhook-deliveries", nil)
	h.ListRecent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, defaultDeliveryLimit, lister.limit)
}

func TestDeliveryHandler_InvalidLimit(t *testing.T) {
	h := NewDeliveryHandler(&mockDeliveryLister{}, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/admin/webhook-deliveries", nil)
	testutil.SetQueryParams(c, map[string]string{"limit": "-1"})
	h.ListRecent(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
