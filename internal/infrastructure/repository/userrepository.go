package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ticketsync/ticketsync/internal/domain/user"
	"github.com/ticketsync/ticketsync/internal/infrastructure/persistence/mappers"
	"github.com/ticketsync/ticketsync/internal/infrastructure/persistence/models"
	"github.com/ticketsync/ticketsync/internal/shared/authorization"
	"github.com/ticketsync/ticketsync/internal/shared/db"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	model := mappers.UserToModel(u)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return u.SetID(model.ID)
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return mappers.UserToDomain(&model), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model models.UserModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return mappers.UserToDomain(&model), nil
}

func (r *UserRepository) ListByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []*models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list users by IDs: %w", err)
	}
	return mappers.UsersToDomain(list), nil
}

func (r *UserRepository) ListOperatorPool(ctx context.Context) ([]*user.User, error) {
	roles := make([]string, 0, 2)
	for _, role := range authorization.OperatorPoolRoles() {
		roles = append(roles, role.String())
	}

	var list []*models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).Where("role IN ?", roles).Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list operator pool: %w", err)
	}
	return mappers.UsersToDomain(list), nil
}

// FindByEmailWithin matches tracker identities such as
// "Jane Doe <jane@example.com>" against stored addresses.
func (r *UserRepository) FindByEmailWithin(ctx context.Context, identity string) ([]*user.User, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, nil
	}

	var list []*models.UserModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("email <> ''").
		Where("INSTR(LOWER(?), LOWER(email)) > 0", identity).
		Order("id ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}
	return mappers.UsersToDomain(list), nil
}
