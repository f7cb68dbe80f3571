package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("store: run not found")

// Run is one simulation run.
type Run struct {
	ID           string  `db:"id" json:"id"`
	ConfigHash   string  `db:"config_hash" json:"config_hash"`
	ConfigJSON   string  `db:"config_json" json:"-"`
	Samples      int     `db:"samples" json:"samples"`
	SamplingRate float64 `db:"sampling_rate" json:"sampling_rate"`
	RoundTrips   int64   `db:"round_trips" json:"round_trips"`
	Status       string  `db:"status" json:"status"`
	Error        string  `db:"error" json:"error,omitempty"`
	CreatedAt    string  `db:"created_at" json:"created_at"`
}

// NewRunID returns a UUIDv7 string. v7 IDs sort by creation time, so
// ListRuns ordering by id lists runs oldest first.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// CreateRun inserts a run in the running state.
func (s *Store) CreateRun(ctx context.Context, r Run) error {
	if r.Status == "" {
		r.Status = StatusRunning
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO runs
		(id, config_hash, config_json, samples, sampling_rate, round_trips, status, error, created_at)
		VALUES (:id, :config_hash, :config_json, :samples, :sampling_rate, :round_trips, :status, :error, :created_at)
	`, r)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// FinishRun records the outcome of a run. A nil runErr marks it completed.
func (s *Store) FinishRun(ctx context.Context, id string, roundTrips int64, runErr error) error {
	status, msg := StatusCompleted, ""
	if runErr != nil {
		status, msg = StatusFailed, runErr.Error()
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET round_trips = ?, status = ?, error = ? WHERE id = ?
	`, roundTrips, status, msg, id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", id, ErrRunNotFound)
	}
	return nil
}

// GetRun returns the run with the given ID.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	var r Run
	err := s.db.GetContext(ctx, &r, `SELECT * FROM runs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

// ListRuns returns all runs in creation order.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	runs := []Run{}
	if err := s.db.SelectContext(ctx, &runs, `SELECT * FROM runs ORDER BY id COLLATE BINARY ASC`); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}
