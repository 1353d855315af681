package seed

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ticketsync/ticketsync/internal/domain/platform"
	"github.com/ticketsync/ticketsync/internal/domain/user"
	"github.com/ticketsync/ticketsync/internal/shared/authorization"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
)

// File is the seed document:
//
//	platforms:
//	  - name: Web
//	    repository_url: https://git.example.com/web
//	users:
//	  - email: olive@example.com
//	    display_name: Olive
//	    role: operator
//	    preferred_platforms: [Web]
type File struct {
	Platforms []PlatformEntry `yaml:"platforms"`
	Users     []UserEntry     `yaml:"users"`
}

type PlatformEntry struct {
	Name          string `yaml:"name"`
	RepositoryURL string `yaml:"repository_url"`
}

type UserEntry struct {
	Email              string   `yaml:"email"`
	DisplayName        string   `yaml:"display_name"`
	Role               string   `yaml:"role"`
	PreferredPlatforms []string `yaml:"preferred_platforms"`
}

// Parse decodes a seed document, rejecting unknown keys.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	for i, u := range f.Users {
		role := authorization.UserRole(strings.ToLower(strings.TrimSpace(u.Role)))
		if u.Role == "" {
			role = authorization.RoleUser
		}
		if !role.IsValid() {
			return nil, fmt.Errorf("users[%d]: invalid role %q", i, u.Role)
		}
		f.Users[i].Role = role.String()
	}
	return &f, nil
}

type PlatformStore interface {
	Create(ctx context.Context, p *platform.Platform) error
	GetByName(ctx context.Context, name string) (*platform.Platform, error)
	AddPreference(ctx context.Context, platformID, userID uint) error
}

type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// Summary counts what Apply created. Existing rows are left untouched.
type Summary struct {
	PlatformsCreated int
	UsersCreated     int
	Preferences      int
}

// Apply creates missing platforms and users and records preferences. It can
// be run repeatedly against the same database.
func Apply(ctx context.Context, f *File, platforms PlatformStore, users UserStore, log logger.Interface) (*Summary, error) {
	summary := &Summary{}
	byName := make(map[string]*platform.Platform, len(f.Platforms))

	for _, entry := range f.Platforms {
		p, err := platforms.GetByName(ctx, entry.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to look up platform %q: %w", entry.Name, err)
		}
		if p == nil {
			p, err = platform.NewPlatform(entry.Name, entry.RepositoryURL)
			if err != nil {
				return nil, err
			}
			if err := platforms.Create(ctx, p); err != nil {
				return nil, fmt.Errorf("failed to create platform %q: %w", entry.Name, err)
			}
			summary.PlatformsCreated++
			log.Infow("platform created", "name", entry.Name, "id", p.ID())
		}
		byName[entry.Name] = p
	}

	for _, entry := range f.Users {
		u, err := users.GetByEmail(ctx, entry.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to look up user %q: %w", entry.Email, err)
		}
		if u == nil {
			u, err = user.NewUser(entry.Email, entry.DisplayName, authorization.UserRole(entry.Role))
			if err != nil {
				return nil, err
			}
			if err := users.Create(ctx, u); err != nil {
				return nil, fmt.Errorf("failed to create user %q: %w", entry.Email, err)
			}
			summary.UsersCreated++
			log.Infow("user created", "email", entry.Email, "role", entry.Role, "id", u.ID())
		}

		for _, name := range entry.PreferredPlatforms {
			p, ok := byName[name]
			if !ok {
				if p, err = platforms.GetByName(ctx, name); err != nil {
					return nil, fmt.Errorf("failed to look up platform %q: %w", name, err)
				}
				if p == nil {
					return nil, fmt.Errorf("user %q prefers unknown platform %q", entry.Email, name)
				}
				byName[name] = p
			}
			if err := platforms.AddPreference(ctx, p.ID(), u.ID()); err != nil {
				return nil, fmt.Errorf("failed to add preference %q for %q: %w", name, entry.Email, err)
			}
			summary.Preferences++
		}
	}
	return summary, nil
}
