package usecases

import (
	"context"
	"fmt"

	"github.com/ticketsync/ticketsync/internal/domain/ticket"
	"github.com/ticketsync/ticketsync/internal/shared/errors"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
)

// MutateFunc changes t in memory and reports whether anything changed.
type MutateFunc func(t *ticket.Ticket) (bool, error)

// ConcurrencyGuard wraps a single ticket mutation in an optimistic version
// check. It never retries.
type ConcurrencyGuard struct {
	repo   ticket.Repository
	logger logger.Interface
}

func NewConcurrencyGuard(repo ticket.Repository, logger logger.Interface) *ConcurrencyGuard {
	return &ConcurrencyGuard{
		repo:   repo,
		logger: logger,
	}
}

// Mutate loads the ticket, applies fn and writes it back conditionally on
// the version it was read at. expectedVersion, when set, must match the
// stored version up front. A lost race is a conflict while the row exists
// and not found once it is gone.
func (g *ConcurrencyGuard) Mutate(ctx context.Context, ticketID uint, expectedVersion *int, fn MutateFunc) (*ticket.Ticket, error) {
	t, err := g.repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}
	if t == nil {
		return nil, errors.NewNotFoundError("ticket not found")
	}

	if expectedVersion != nil && *expectedVersion != t.Version() {
		g.logger.Warnw("stale ticket version",
			"ticket_id", ticketID,
			"expected_version", *expectedVersion,
			"current_version", t.Version(),
		)
		return nil, errors.NewConflictError("ticket was modified by someone else",
			fmt.Sprintf("expected version %d, current version %d", *expectedVersion, t.Version()))
	}

	changed, err := fn(t)
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.NewValidationError(err.Error())
	}
	if !changed {
		return t, nil
	}

	outcome, err := g.repo.UpdateWithVersion(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}

	switch outcome {
	case ticket.UpdateSucceeded:
		return t, nil
	case ticket.UpdateConflict:
		g.logger.Warnw("concurrent ticket update rejected", "ticket_id", ticketID, "version", t.Version())
		return nil, errors.NewConflictError("ticket was modified by someone else")
	case ticket.UpdateNotFound:
		g.logger.Warnw("ticket deleted during update", "ticket_id", ticketID)
		return nil, errors.NewNotFoundError("ticket not found")
	default:
		return nil, fmt.Errorf("unexpected update outcome %s", outcome)
	}
}
