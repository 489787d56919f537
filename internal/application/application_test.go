package application

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/psds-microservice/support-router/internal/config"
	"github.com/psds-microservice/support-router/internal/database/databasetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	cfg := &config.Config{AppHost: "127.0.0.1", HTTPPort: "0", TenantID: 1}
	cfg.DB.Driver = "sqlite"
	cfg.DB.Path = "unused.db"
	return cfg
}

func withDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	db := databasetest.Open(t)
	prev := openDatabase
	openDatabase = func(*config.Config) (*gorm.DB, error) { return db, nil }
	t.Cleanup(func() { openDatabase = prev })
	return db
}

func TestNewAPIClosesDatabaseWhenRedisIsDown(t *testing.T) {
	db := withDatabase(t)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig()
	cfg.Redis.Addr = addr
	a, err := NewAPI(cfg)
	require.Error(t, err)
	assert.Nil(t, a)
	assert.Contains(t, err.Error(), "redis")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping(), "the database must be closed after a failed start")
}

func TestNewAPIWithDatabaseBindings(t *testing.T) {
	db := withDatabase(t)

	a, err := NewAPI(testConfig())
	require.NoError(t, err)
	require.NotNil(t, a.httpSrv)
	assert.Nil(t, a.redis)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())
	a.close()
	assert.Error(t, sqlDB.Ping())
}

func TestLoggerWritesJSONAtConfiguredLevel(t *testing.T) {
	cfg := testConfig()
	cfg.LogLevel = "warn"
	var buf bytes.Buffer
	logger := newLogger(&buf, cfg)

	logger.Info("hidden")
	logger.Warn("delivery failed", "chat_id", "100")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), "exactly one JSON line expected, got %q", buf.String())
	assert.Equal(t, "delivery failed", line["msg"])
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "support-router", line["service"])
	assert.Equal(t, "100", line["chat_id"])
}
