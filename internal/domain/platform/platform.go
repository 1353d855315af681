package platform

import (
	"context"
	"fmt"
)

// Platform is the product area a ticket is filed against. Operators mark
// platforms as preferred to receive its tickets.
type Platform struct {
	id            uint
	name          string
	repositoryURL string
}

func NewPlatform(name, repositoryURL string) (*Platform, error) {
	if name == "" {
		return nil, fmt.Errorf("platform name is required")
	}
	return &Platform{name: name, repositoryURL: repositoryURL}, nil
}

func ReconstructPlatform(id uint, name, repositoryURL string) *Platform {
	return &Platform{id: id, name: name, repositoryURL: repositoryURL}
}

func (p *Platform) ID() uint              { return p.id }
func (p *Platform) Name() string          { return p.name }
func (p *Platform) RepositoryURL() string { return p.repositoryURL }

func (p *Platform) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("platform ID is already set")
	}
	p.id = id
	return nil
}

type Repository interface {
	Create(ctx context.Context, p *Platform) error
	GetByID(ctx context.Context, id uint) (*Platform, error)
	// GetByName matches the name exactly. Returns (nil, nil) when absent.
	GetByName(ctx context.Context, name string) (*Platform, error)
	AddPreference(ctx context.Context, platformID, userID uint) error
	// ListPreferringUserIDs returns users who prefer the platform, in the
	// order the preferences were recorded.
	ListPreferringUserIDs(ctx context.Context, platformID uint) ([]uint, error)
}
