package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ticketsync/ticketsync/internal/domain/workitem"
	"github.com/ticketsync/ticketsync/internal/infrastructure/persistence/mappers"
	"github.com/ticketsync/ticketsync/internal/infrastructure/persistence/models"
	"github.com/ticketsync/ticketsync/internal/shared/db"
)

const maxDeliveryPage = 500

// WebhookDeliveryRepository is the webhook journal.
type WebhookDeliveryRepository struct {
	db *gorm.DB
}

func NewWebhookDeliveryRepository(db *gorm.DB) *WebhookDeliveryRepository {
	return &WebhookDeliveryRepository{db: db}
}

func (r *WebhookDeliveryRepository) Record(ctx context.Context, d *workitem.Delivery) error {
	model := mappers.DeliveryToModel(d)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to record webhook delivery: %w", err)
	}
	d.ID = model.ID
	return nil
}

func (r *WebhookDeliveryRepository) ListRecent(ctx context.Context, limit int) ([]*workitem.Delivery, error) {
	if limit <= 0 || limit > maxDeliveryPage {
		limit = maxDeliveryPage
	}

	var list []*models.WebhookDeliveryModel
	err := db.GetTxFromContext(ctx, r.db).
		Order("received_at DESC").Order("id DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list webhook deliveries: %w", err)
	}

	out := make([]*workitem.Delivery, 0, len(list))
	for _, m := range list {
		out = append(out, mappers.DeliveryToDomain(m))
	}
	return out, nil
}
