package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/abrezinsky/rosterdraw/internal/logger"
	"github.com/abrezinsky/rosterdraw/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// NewTestLogger returns a logger that only shows errors, so test output stays quiet.
func NewTestLogger() logger.Logger {
	return logger.NewWithOptions(logger.Options{Level: slog.LevelError, Writer: io.Discard})
}
