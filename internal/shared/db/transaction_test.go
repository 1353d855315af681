package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type counterRow struct {
	ID    uint `gorm:"primaryKey"`
	Value int
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(&counterRow{}))
	return gdb
}

func TestRunInTransaction_CommitRunsHooks(t *testing.T) {
	gdb := setupTestDB(t)
	tm := NewTransactionManager(gdb)

	var fired []string
	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		assert.True(t, InTransaction(ctx))
		AfterCommit(ctx, func() { fired = append(fired, "first") })

		// nested call joins the outer transaction
		return tm.RunInTransaction(ctx, func(inner context.Context) error {
			AfterCommit(inner, func() { fired = append(fired, "second") })
			assert.Empty(t, fired)
			return GetTxFromContext(inner, gdb).Create(&counterRow{Value: 1}).Error
		})
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, fired)

	var count int64
	require.NoError(t, gdb.Model(&counterRow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRunInTransaction_RollbackDropsHooks(t *testing.T) {
	gdb := setupTestDB(t)
	tm := NewTransactionManager(gdb)

	fired := false
	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		AfterCommit(ctx, func() { fired = true })
		if err := GetTxFromContext(ctx, gdb).Create(&counterRow{Value: 1}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})

	require.Error(t, err)
	assert.False(t, fired)

	var count int64
	require.NoError(t, gdb.Model(&counterRow{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAfterCommit_OutsideTransactionRunsNow(t *testing.T) {
	fired := false
	AfterCommit(context.Background(), func() { fired = true })
	assert.True(t, fired)
	assert.False(t, InTransaction(context.Background()))
}
