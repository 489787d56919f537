// Package databasetest открывает временную SQLite-базу со схемой сервиса для тестов.
package databasetest

import (
	"path/filepath"
	"testing"

	"github.com/psds-microservice/support-router/internal/database"
	"gorm.io/gorm"
)

func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	db, err := database.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("databasetest: open: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("databasetest: migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
