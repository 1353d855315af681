package models

import "github.com/ticketsync/ticketsync/internal/shared/constants"

// UserModel is the persisted directory entry. Profile fields beyond what the
// ticket lifecycle reads live elsewhere.
type UserModel struct {
	ID          uint   `gorm:"primaryKey"`
	Email       string `gorm:"uniqueIndex;size:255;not null"`
	DisplayName string `gorm:"size:100;not null"`
	Role        string `gorm:"size:20;not null;index"`
	CreatedAt   int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt   int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
