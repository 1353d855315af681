package mappers

import (
	"gorm.io/datatypes"

	"github.com/ticketsync/ticketsync/internal/domain/workitem"
	"github.com/ticketsync/ticketsync/internal/infrastructure/persistence/models"
	"github.com/ticketsync/ticketsync/internal/shared/biztime"
)

// Unparseable deliveries are journaled with a JSON null payload.
const jsonNull = "null"

func DeliveryToModel(d *workitem.Delivery) *models.WebhookDeliveryModel {
	model := &models.WebhookDeliveryModel{
		ID:         d.ID,
		EventID:    d.EventID,
		Kind:       d.Kind,
		EventType:  d.EventType,
		WorkItemID: d.WorkItemID,
		Outcome:    d.Outcome,
		Error:      d.Error,
		ReceivedAt: d.ReceivedAt.UnixMilli(),
		Payload:    datatypes.JSON(jsonNull),
	}
	if len(d.Payload) > 0 {
		model.Payload = datatypes.JSON(d.Payload)
	}
	return model
}

func DeliveryToDomain(model *models.WebhookDeliveryModel) *workitem.Delivery {
	var payload []byte
	if len(model.Payload) > 0 && string(model.Payload) != jsonNull {
		payload = []byte(model.Payload)
	}
	return &workitem.Delivery{
		ID:         model.ID,
		EventID:    model.EventID,
		Kind:       model.Kind,
		EventType:  model.EventType,
		WorkItemID: model.WorkItemID,
		Outcome:    model.Outcome,
		Error:      model.Error,
		Payload:    payload,
		ReceivedAt: biztime.UnixMilli(model.ReceivedAt),
	}
}
