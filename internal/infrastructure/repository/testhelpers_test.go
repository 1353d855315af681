package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ticketsync/ticketsync/internal/infrastructure/persistence/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	// every pooled connection would otherwise get its own empty database
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(
		&models.UserModel{},
		&models.PlatformModel{},
		&models.PlatformPreferenceModel{},
		&models.TicketModel{},
		&models.TicketEditModel{},
		&models.TicketReplyModel{},
		&models.NotificationModel{},
		&models.UserNotificationModel{},
		&models.WebhookDeliveryModel{},
	))
	return gdb
}
