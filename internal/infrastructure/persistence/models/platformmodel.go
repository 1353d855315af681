package models

import "github.com/ticketsync/ticketsync/internal/shared/constants"

type PlatformModel struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"uniqueIndex;size:100;not null"`
	RepositoryURL string `gorm:"size:500"`
	CreatedAt     int64  `gorm:"autoCreateTime:milli;not null"`
}

func (PlatformModel) TableName() string {
	return constants.TablePlatforms
}

// PlatformPreferenceModel marks a user as preferring a platform. The id
// keeps the order in which preferences were recorded.
type PlatformPreferenceModel struct {
	ID         uint  `gorm:"primaryKey"`
	PlatformID uint  `gorm:"not null;uniqueIndex:idx_platform_user"`
	UserID     uint  `gorm:"not null;uniqueIndex:idx_platform_user"`
	CreatedAt  int64 `gorm:"autoCreateTime:milli;not null"`
}

func (PlatformPreferenceModel) TableName() string {
	return constants.TablePlatformPreferences
}
