package models

import (
	"gorm.io/datatypes"

	"github.com/ticketsync/ticketsync/internal/shared/constants"
)

type WebhookDeliveryModel struct {
	ID         uint           `gorm:"primaryKey"`
	EventID    string         `gorm:"size:100"`
	Kind       string         `gorm:"size:20;not null"`
	EventType  string         `gorm:"size:50"`
	WorkItemID int            `gorm:"index"`
	Outcome    string         `gorm:"size:20;not null;index"`
	Error      string         `gorm:"type:text"`
	Payload    datatypes.JSON `gorm:"type:json"`
	ReceivedAt int64          `gorm:"not null;index"`
}

func (WebhookDeliveryModel) TableName() string {
	return constants.TableWebhookDeliveries
}
