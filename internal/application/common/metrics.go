package common

import (
	"github.com/ticketsync/ticketsync/internal/shared/errors"
)

// MetricsRecorder receives lifecycle counters. Implementations must be safe
// for concurrent use.
type MetricsRecorder interface {
	RecordTicketOperation(operation, origin, outcome string)
	RecordWebhookEvent(event, outcome string)
	RecordNotification(flow string, recipients int)
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) RecordTicketOperation(string, string, string) {}
func (NoopMetrics) RecordWebhookEvent(string, string)            {}
func (NoopMetrics) RecordNotification(string, int)               {}

// Outcome labels shared by the recorders.
const (
	OutcomeSuccess   = "success"
	OutcomeDegraded  = "degraded"
	OutcomeConflict  = "conflict"
	OutcomeNotFound  = "not_found"
	OutcomeInvalid   = "invalid"
	OutcomeForbidden = "forbidden"
	OutcomeIgnored   = "ignored"
	OutcomeError     = "error"
)

// OutcomeOf classifies an error returned by a use case.
func OutcomeOf(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	appErr := errors.GetAppError(err)
	if appErr == nil {
		return OutcomeError
	}
	switch appErr.Type {
	case errors.ErrorTypeConflict:
		return OutcomeConflict
	case errors.ErrorTypeNotFound:
		return OutcomeNotFound
	case errors.ErrorTypeValidation, errors.ErrorTypeMapping, errors.ErrorTypeBadRequest:
		return OutcomeInvalid
	case errors.ErrorTypeForbidden, errors.ErrorTypeUnauthorized:
		return OutcomeForbidden
	default:
		return OutcomeError
	}
}
