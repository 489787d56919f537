package service_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/psds-microservice/support-router/internal/database/databasetest"
	"github.com/psds-microservice/support-router/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(databasetest.Open(t))
}
