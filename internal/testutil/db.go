// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resellerbot/internal/bootstrap"
	"resellerbot/internal/pkg/utils"
)

// OwnerID is the administrator seeded by NewDB.
const OwnerID int64 = 1000

// Today is the pinned calendar date used by Clock.
var Today = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

// Clock returns a clock fixed at noon of Today.
func Clock() utils.Clock {
	return utils.FixedClock(Today.Add(12 * time.Hour))
}

// NewDB opens an in-memory sqlite database, migrated and seeded.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// Every new connection to :memory: is a fresh database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := bootstrap.MigrateAndSeed(db, OwnerID); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
