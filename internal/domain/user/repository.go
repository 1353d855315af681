package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	// GetByID returns (nil, nil) when the user does not exist.
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// ListByIDs skips ids that do not exist.
	ListByIDs(ctx context.Context, ids []uint) ([]*User, error)
	// ListOperatorPool returns every operator and admin ordered by id.
	ListOperatorPool(ctx context.Context) ([]*User, error)
	// FindByEmailWithin returns the users whose e-mail occurs,
	// case-insensitively, inside identity.
	FindByEmailWithin(ctx context.Context, identity string) ([]*User, error)
}
