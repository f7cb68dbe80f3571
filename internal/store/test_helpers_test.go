package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// createTestStore opens a fresh store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cavity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun inserts a running run over 4 samples at rate 2.
func createTestRun(t *testing.T, s *Store, id string) Run {
	t.Helper()
	r := Run{
		ID:           id,
		ConfigHash:   "test-hash",
		ConfigJSON:   "{}",
		Samples:      4,
		SamplingRate: 2,
		CreatedAt:    "2026-01-01T00:00:00Z",
	}
	require.NoError(t, s.CreateRun(context.Background(), r))
	r.Status = StatusRunning
	return r
}
