package models

import "github.com/ticketsync/ticketsync/internal/shared/constants"

// TicketModel stores a ticket. WorkItemID is unique but nullable so that
// tickets without a tracker counterpart do not collide.
type TicketModel struct {
	ID          uint   `gorm:"primaryKey"`
	Type        string `gorm:"size:20;not null"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text;not null"`
	Priority    string `gorm:"size:20;not null"`
	Status      string `gorm:"size:30;not null;index:idx_ticket_operator_status,priority:2"`
	WorkItemID  *int   `gorm:"uniqueIndex"`
	PlatformID  uint   `gorm:"not null;index"`
	CreatorID   uint   `gorm:"not null;index"`
	OperatorID  *uint  `gorm:"index:idx_ticket_operator_status,priority:1"`
	Version     int    `gorm:"not null;default:1"`
	CreatedAt   int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt   int64  `gorm:"autoUpdateTime:milli;not null"`

	// No foreign keys; child rows are removed by the delete use case.
}

func (TicketModel) TableName() string {
	return constants.TableTickets
}

type TicketEditModel struct {
	ID          uint   `gorm:"primaryKey"`
	TicketID    uint   `gorm:"not null;index"`
	UserID      uint   `gorm:"not null"`
	Description string `gorm:"type:text;not null"`
	OldStatus   string `gorm:"size:30;not null"`
	NewStatus   string `gorm:"size:30;not null"`
	CreatedAt   int64  `gorm:"autoCreateTime:milli;not null"`
}

func (TicketEditModel) TableName() string {
	return constants.TableTicketEdits
}

type TicketReplyModel struct {
	ID        uint   `gorm:"primaryKey"`
	TicketID  uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null"`
	Message   string `gorm:"type:text;not null"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null"`
}

func (TicketReplyModel) TableName() string {
	return constants.TableTicketReplies
}
