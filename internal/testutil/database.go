// Package testutil holds the shared test scaffolding for the portfolio
// backend: throwaway SQLite databases carrying the client, avenue and
// investment-variant schema, row fixtures for each of those, and
// assertions over the AppError envelope.
package testutil

import (
	"fmt"
	"testing"

	"nivesh/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// memoryDSN names a private shared-cache database so that every pooled
// connection of one test sees the same tables and no other test does.
func memoryDSN() string {
	return fmt.Sprintf("file:nivesh_test_%d?mode=memory&cache=shared", nextID())
}

// SetupTestDB opens a fresh in-memory database and migrates users, clients,
// avenues, client details, every variant table and the audit log into it.
// The connection is closed when the test ends; TeardownTestDB may still be
// deferred to close it earlier.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(memoryDSN()), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate investment schema: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SetupSeededDB is SetupTestDB plus the ten default investment avenues, the
// state every submission path expects before a client detail can be stored.
func SetupSeededDB(t *testing.T) (*gorm.DB, []models.InvestmentAvenue) {
	t.Helper()

	db := SetupTestDB(t)
	return db, SeedTestAvenues(t, db)
}

// TeardownTestDB closes the connection opened by SetupTestDB. Closing twice
// is harmless.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("no underlying connection to close: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close investment test database: %v", err)
	}
}
