package usecases

import (
	"context"

	"github.com/ticketsync/ticketsync/internal/application/common"
	"github.com/ticketsync/ticketsync/internal/domain/platform"
	"github.com/ticketsync/ticketsync/internal/domain/user"
)

// TrackerSync reports the outbound push that followed a committed change.
// A failed push leaves the local change in place.
type TrackerSync struct {
	Attempted bool
	Synced    bool
	Error     string
}

// Degraded means the local write succeeded but the tracker did not follow.
func (s TrackerSync) Degraded() bool {
	return s.Attempted && !s.Synced
}

func (s *TrackerSync) begin() {
	s.Attempted = true
	s.Synced = true
}

func (s *TrackerSync) fail(err error) {
	s.Synced = false
	if s.Error == "" {
		s.Error = err.Error()
	}
}

func (s TrackerSync) outcome() string {
	if s.Degraded() {
		return common.OutcomeDegraded
	}
	return common.OutcomeSuccess
}

// UserReader resolves users for tracker identities and permission checks.
type UserReader interface {
	GetByID(ctx context.Context, id uint) (*user.User, error)
}

type PlatformReader interface {
	GetByID(ctx context.Context, id uint) (*platform.Platform, error)
}

func operatorEmail(ctx context.Context, users UserReader, operatorID *uint) (string, error) {
	if operatorID == nil {
		return "", nil
	}
	u, err := users.GetByID(ctx, *operatorID)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", nil
	}
	return u.Email(), nil
}
