package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ticketsync/ticketsync/internal/domain/ticket"
	"github.com/ticketsync/ticketsync/internal/infrastructure/persistence/mappers"
	"github.com/ticketsync/ticketsync/internal/infrastructure/persistence/models"
	"github.com/ticketsync/ticketsync/internal/shared/biztime"
	"github.com/ticketsync/ticketsync/internal/shared/db"
)

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db, mapper: mappers.NewTicketMapper()}
}

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	if err := t.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set ticket ID: %w", err)
	}
	t.SetVersion(model.Version)
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	var model models.TicketModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ticket by ID: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) GetByWorkItemID(ctx context.Context, workItemID int) (*ticket.Ticket, error) {
	var model models.TicketModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("work_item_id = ?", workItemID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ticket by work item ID: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

// UpdateWithVersion performs a compare-and-set on the version column. When
// no row matched, a second lookup tells a stale version from a deleted row.
func (r *TicketRepository) UpdateWithVersion(ctx context.Context, t *ticket.Ticket) (ticket.UpdateOutcome, error) {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.TicketModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"type":         model.Type,
			"title":        model.Title,
			"description":  model.Description,
			"priority":     model.Priority,
			"status":       model.Status,
			"work_item_id": model.WorkItemID,
			"operator_id":  model.OperatorID,
			"version":      model.Version + 1,
			"updated_at":   biztime.NowUTC().UnixMilli(),
		})
	if result.Error != nil {
		return ticket.UpdateConflict, fmt.Errorf("failed to update ticket: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.TicketModel{}).Where("id = ?", model.ID).Count(&count).Error; err != nil {
			return ticket.UpdateConflict, fmt.Errorf("failed to check ticket existence: %w", err)
		}
		if count == 0 {
			return ticket.UpdateNotFound, nil
		}
		return ticket.UpdateConflict, nil
	}

	t.SetVersion(model.Version + 1)
	return ticket.UpdateSucceeded, nil
}

func (r *TicketRepository) Delete(ctx context.Context, id uint) error {
	if err := db.GetTxFromContext(ctx, r.db).Delete(&models.TicketModel{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) CountOpenAssigned(ctx context.Context, operatorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(operatorIDs))
	if len(operatorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		OperatorID uint
		Total      int64
	}
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.TicketModel{}).
		Scopes(db.OpenTickets()).
		Select("operator_id, COUNT(*) AS total").
		Where("operator_id IN ?", operatorIDs).
		Group("operator_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count open tickets per operator: %w", err)
	}

	for _, row := range rows {
		counts[row.OperatorID] = row.Total
	}
	return counts, nil
}

type TicketEditRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketEditRepository(db *gorm.DB) *TicketEditRepository {
	return &TicketEditRepository{db: db, mapper: mappers.NewTicketMapper()}
}

func (r *TicketEditRepository) Create(ctx context.Context, e *ticket.Edit) error {
	model := r.mapper.EditToModel(e)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket edit: %w", err)
	}
	return e.SetID(model.ID)
}

func (r *TicketEditRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Edit, error) {
	var list []*models.TicketEditModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ByTicket(ticketID)).
		Order("created_at ASC").Order("id ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket edits: %w", err)
	}

	edits := make([]*ticket.Edit, 0, len(list))
	for _, m := range list {
		edits = append(edits, r.mapper.EditToDomain(m))
	}
	return edits, nil
}

func (r *TicketEditRepository) DeleteByTicket(ctx context.Context, ticketID uint) error {
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ByTicket(ticketID)).
		Delete(&models.TicketEditModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete ticket edits: %w", err)
	}
	return nil
}

type TicketReplyRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketReplyRepository(db *gorm.DB) *TicketReplyRepository {
	return &TicketReplyRepository{db: db, mapper: mappers.NewTicketMapper()}
}

func (r *TicketReplyRepository) Create(ctx context.Context, reply *ticket.Reply) error {
	model := r.mapper.ReplyToModel(reply)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket reply: %w", err)
	}
	return reply.SetID(model.ID)
}

func (r *TicketReplyRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Reply, error) {
	var list []*models.TicketReplyModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ByTicket(ticketID)).
		Order("created_at ASC").Order("id ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket replies: %w", err)
	}

	replies := make([]*ticket.Reply, 0, len(list))
	for _, m := range list {
		replies = append(replies, r.mapper.ReplyToDomain(m))
	}
	return replies, nil
}

func (r *TicketReplyRepository) DeleteByTicket(ctx context.Context, ticketID uint) error {
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ByTicket(ticketID)).
		Delete(&models.TicketReplyModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete ticket replies: %w", err)
	}
	return nil
}
