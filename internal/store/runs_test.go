package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRun_GetRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	want := createTestRun(t, s, "run-1")

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCreateRun_DuplicateID(t *testing.T) {
	s := createTestStore(t)
	createTestRun(t, s, "run-1")

	err := s.CreateRun(context.Background(), Run{ID: "run-1", CreatedAt: "x"})
	assert.Error(t, err)
}

func TestGetRun_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestFinishRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "ok")
	createTestRun(t, s, "bad")

	require.NoError(t, s.FinishRun(ctx, "ok", 100, nil))
	require.NoError(t, s.FinishRun(ctx, "bad", 7, errors.New("fiber \"smf\": boom")))

	ok, err := s.GetRun(ctx, "ok")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, ok.Status)
	assert.Equal(t, int64(100), ok.RoundTrips)
	assert.Empty(t, ok.Error)

	bad, err := s.GetRun(ctx, "bad")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, bad.Status)
	assert.Equal(t, int64(7), bad.RoundTrips)
	assert.Equal(t, `fiber "smf": boom`, bad.Error)

	assert.ErrorIs(t, s.FinishRun(ctx, "missing", 1, nil), ErrRunNotFound)
}

func TestListRuns_CreationOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	empty, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	ids := []string{NewRunID(), NewRunID(), NewRunID()}
	// Insert out of order; listing follows the time-ordered IDs.
	for _, i := range []int{2, 0, 1} {
		createTestRun(t, s, ids[i])
	}

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	for i, r := range runs {
		assert.Equal(t, ids[i], r.ID)
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.NotEqual(t, a, b)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}
