package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ticketsync/ticketsync/internal/shared/config"
	"github.com/ticketsync/ticketsync/internal/shared/constants"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
)

func TestEmbeddedScriptsAreGooseFormatted(t *testing.T) {
	entries, err := fs.ReadDir(embeddedScripts, scriptsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		body, err := fs.ReadFile(embeddedScripts, scriptsDir+"/"+e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", e.Name())
		assert.Contains(t, string(body), "-- +goose Down", e.Name())
	}
}

func TestEmbeddedScriptsCoverEveryTable(t *testing.T) {
	var all strings.Builder
	entries, err := fs.ReadDir(embeddedScripts, scriptsDir)
	require.NoError(t, err)
	for _, e := range entries {
		body, err := fs.ReadFile(embeddedScripts, scriptsDir+"/"+e.Name())
		require.NoError(t, err)
		all.Write(body)
	}

	for _, table := range []string{
		constants.TableUsers,
		constants.TablePlatforms,
		constants.TablePlatformPreferences,
		constants.TableTickets,
		constants.TableTicketEdits,
		constants.TableTicketReplies,
		constants.TableNotifications,
		constants.TableUserNotifications,
		constants.TableWebhookDeliveries,
	} {
		assert.Contains(t, all.String(), "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
}

func TestAutoMigrateStrategy_CreatesTables(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	s := NewAutoMigrateStrategy(logger.NewDiscard())
	require.NoError(t, s.Migrate(db))

	assert.True(t, db.Migrator().HasTable(constants.TableTickets))
	assert.True(t, db.Migrator().HasTable(constants.TableWebhookDeliveries))
	assert.Equal(t, "gorm_auto_migrate", s.GetName())
}

func TestForEnvironment(t *testing.T) {
	log := logger.NewDiscard()
	assert.Equal(t, "gorm_auto_migrate", ForEnvironment("development", config.DriverMySQL, log).GetName())
	assert.Equal(t, "goose", ForEnvironment("production", config.DriverMySQL, log).GetName())
	assert.Equal(t, "gorm_auto_migrate", ForEnvironment("production", config.DriverSQLite, log).GetName())
}
