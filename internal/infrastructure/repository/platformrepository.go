package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ticketsync/ticketsync/internal/domain/platform"
	"github.com/ticketsync/ticketsync/internal/infrastructure/persistence/mappers"
	"github.com/ticketsync/ticketsync/internal/infrastructure/persistence/models"
	"github.com/ticketsync/ticketsync/internal/shared/db"
)

type PlatformRepository struct {
	db *gorm.DB
}

func NewPlatformRepository(db *gorm.DB) *PlatformRepository {
	return &PlatformRepository{db: db}
}

func (r *PlatformRepository) Create(ctx context.Context, p *platform.Platform) error {
	model := mappers.PlatformToModel(p)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create platform: %w", err)
	}
	return p.SetID(model.ID)
}

func (r *PlatformRepository) GetByID(ctx context.Context, id uint) (*platform.Platform, error) {
	var model models.PlatformModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get platform by ID: %w", err)
	}
	return mappers.PlatformToDomain(&model), nil
}

func (r *PlatformRepository) GetByName(ctx context.Context, name string) (*platform.Platform, error) {
	var model models.PlatformModel
	if err := db.GetTxFromContext(ctx, r.db).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get platform by name: %w", err)
	}
	return mappers.PlatformToDomain(&model), nil
}

// AddPreference is idempotent.
func (r *PlatformRepository) AddPreference(ctx context.Context, platformID, userID uint) error {
	model := &models.PlatformPreferenceModel{PlatformID: platformID, UserID: userID}
	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to add platform preference: %w", err)
	}
	return nil
}

func (r *PlatformRepository) ListPreferringUserIDs(ctx context.Context, platformID uint) ([]uint, error) {
	var ids []uint
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.PlatformPreferenceModel{}).
		Where("platform_id = ?", platformID).
		Order("id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list platform preferences: %w", err)
	}
	return ids, nil
}
