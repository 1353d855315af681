// Package assignment recommends an operator for a new ticket. It never
// changes state; the ticket use cases apply the recommendation.
package assignment

import (
	"context"
	"fmt"

	"github.com/ticketsync/ticketsync/internal/shared/logger"
	"github.com/ticketsync/ticketsync/internal/shared/utils/setutil"
)

// PreferenceReader lists the users who prefer a platform, oldest preference first.
type PreferenceReader interface {
	ListPreferringUserIDs(ctx context.Context, platformID uint) ([]uint, error)
}

// WorkloadReader counts open tickets per operator.
type WorkloadReader interface {
	CountOpenAssigned(ctx context.Context, operatorIDs []uint) (map[uint]int64, error)
}

type Engine struct {
	preferences PreferenceReader
	workload    WorkloadReader
	logger      logger.Interface
}

func NewEngine(preferences PreferenceReader, workload WorkloadReader, logger logger.Interface) *Engine {
	return &Engine{
		preferences: preferences,
		workload:    workload,
		logger:      logger,
	}
}

// Recommend returns the least loaded operator from pool who prefers the
// platform, or nil when nobody qualifies.
func (e *Engine) Recommend(ctx context.Context, platformID uint, pool []uint) (*uint, error) {
	preferred, err := e.preferences.ListPreferringUserIDs(ctx, platformID)
	if err != nil {
		return nil, fmt.Errorf("failed to list platform preferences: %w", err)
	}

	candidates := Candidates(preferred, pool)
	if len(candidates) == 0 {
		e.logger.Debugw("no eligible operator for platform", "platform_id", platformID, "pool_size", len(pool))
		return nil, nil
	}

	load, err := e.workload.CountOpenAssigned(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to count operator workload: %w", err)
	}

	chosen, ok := SelectLeastLoaded(candidates, load)
	if !ok {
		return nil, nil
	}

	e.logger.Infow("operator recommended",
		"platform_id", platformID,
		"operator_id", chosen,
		"open_tickets", load[chosen],
		"candidates", len(candidates),
	)
	return &chosen, nil
}

// Candidates keeps the preferring users that are in the pool, in preference
// order, without duplicates or zero ids.
func Candidates(preferred, pool []uint) []uint {
	inPool := setutil.NewUintSet(pool...)
	out := setutil.NewUintSet()
	for _, id := range preferred {
		if id == 0 || !inPool.Has(id) {
			continue
		}
		out.Add(id)
	}
	return out.ToSlice()
}

// SelectLeastLoaded picks the candidate with the fewest open tickets. The
// first candidate wins ties. Missing load entries count as zero.
func SelectLeastLoaded(candidates []uint, load map[uint]int64) (uint, bool) {
	var (
		best     uint
		bestLoad int64
		found    bool
	)
	for _, id := range candidates {
		if id == 0 {
			continue
		}
		l := load[id]
		if !found || l < bestLoad {
			best, bestLoad, found = id, l, true
		}
	}
	return best, found
}
