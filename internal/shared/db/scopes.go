package db

import (
	"gorm.io/gorm"
)

// closedStatus mirrors the persisted value of the terminal ticket status.
const closedStatus = "closed"

// OpenTickets restricts a tickets query to rows that still count towards an
// operator's workload.
//
//	db.Model(&models.TicketModel{}).Scopes(db.OpenTickets()).Where("operator_id = ?", id).Count(&n)
func OpenTickets() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status <> ?", closedStatus)
	}
}

// ByTicket filters child rows (edits, replies, notifications) by ticket.
func ByTicket(ticketID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("ticket_id = ?", ticketID)
	}
}

// Newest orders by creation time descending with id as the tiebreaker.
func Newest() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC").Order("id DESC")
	}
}
