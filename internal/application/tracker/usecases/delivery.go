package usecases

import (
	"context"
	"encoding/json"

	"github.com/ticketsync/ticketsync/internal/application/common"
	"github.com/ticketsync/ticketsync/internal/domain/workitem"
	"github.com/ticketsync/ticketsync/internal/shared/biztime"
	"github.com/ticketsync/ticketsync/internal/shared/errors"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
	"github.com/ticketsync/ticketsync/internal/shared/utils/logutil"
)

// Delivery kinds, one per webhook route.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

const payloadLogRunes = 256

// HandleDeliveryUseCase decodes a raw webhook body, routes it to the
// matching sync handler and journals the result.
type HandleDeliveryUseCase struct {
	sync    *WebhookSync
	journal workitem.DeliveryJournal
	metrics common.MetricsRecorder
	logger  logger.Interface
}

func NewHandleDeliveryUseCase(
	sync *WebhookSync,
	journal workitem.DeliveryJournal,
	metrics common.MetricsRecorder,
	logger logger.Interface,
) *HandleDeliveryUseCase {
	if metrics == nil {
		metrics = common.NoopMetrics{}
	}
	return &HandleDeliveryUseCase{
		sync:    sync,
		journal: journal,
		metrics: metrics,
		logger:  logger,
	}
}

func (uc *HandleDeliveryUseCase) Execute(ctx context.Context, kind string, payload []byte) (*SyncResult, error) {
	uc.logger.Infow("executing handle webhook delivery use case", "kind", kind, "size", len(payload))

	var event workitem.Event
	result, err := func() (*SyncResult, error) {
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.NewValidationError("malformed webhook payload", err.Error())
		}
		switch kind {
		case KindCreated:
			return uc.sync.HandleCreated(ctx, &event)
		case KindUpdated:
			return uc.sync.HandleUpdated(ctx, &event)
		case KindDeleted:
			return uc.sync.HandleDeleted(ctx, &event)
		default:
			return nil, errors.NewValidationError("unknown webhook kind", kind)
		}
	}()

	outcome := common.OutcomeOf(err)
	if err == nil {
		outcome = string(result.Outcome)
	}
	uc.metrics.RecordWebhookEvent(kind, outcome)
	uc.record(ctx, kind, &event, payload, outcome, err)

	if err != nil {
		uc.logger.Warnw("webhook delivery rejected",
			"kind", kind,
			"work_item_id", event.WorkItemID(),
			"outcome", outcome,
			"error", err,
			"payload", logutil.TruncateForLog(string(payload), payloadLogRunes),
		)
		return nil, err
	}
	return result, nil
}

// record journals the delivery. A journal failure never fails the delivery.
func (uc *HandleDeliveryUseCase) record(ctx context.Context, kind string, event *workitem.Event, payload []byte, outcome string, cause error) {
	if uc.journal == nil {
		return
	}
	d := &workitem.Delivery{
		EventID:    event.ID,
		Kind:       kind,
		EventType:  event.EventType,
		WorkItemID: event.WorkItemID(),
		Outcome:    outcome,
		Payload:    payload,
		ReceivedAt: biztime.NowUTC(),
	}
	if cause != nil {
		d.Error = cause.Error()
	}
	if !json.Valid(payload) {
		d.Payload = nil
	}
	if err := uc.journal.Record(ctx, d); err != nil {
		uc.logger.Warnw("failed to journal webhook delivery", "kind", kind, "error", err)
	}
}
