package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/cavity/internal/field"
	"github.com/roach88/cavity/internal/recorder"
)

// snapshotRow mirrors the snapshots table.
type snapshotRow struct {
	RunID     string `db:"run_id"`
	Recorder  string `db:"recorder"`
	Seq       int64  `db:"seq"`
	RoundTrip int64  `db:"round_trip"`
	Right     []byte `db:"right_samples"`
	Left      []byte `db:"left_samples"`
}

// WriteSnapshots appends entries for one recorder of a run in a single
// transaction and returns the number of sample bytes written. Sequence
// numbers continue after any snapshots already stored for that recorder.
func (s *Store) WriteSnapshots(ctx context.Context, runID, name string, entries []recorder.Entry) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write snapshots: %w", err)
	}
	defer tx.Rollback()

	var next int64
	if err := tx.GetContext(ctx, &next, `
		SELECT COALESCE(MAX(seq) + 1, 0) FROM snapshots WHERE run_id = ? AND recorder = ?
	`, runID, name); err != nil {
		return 0, fmt.Errorf("write snapshots: %w", err)
	}

	var written int64
	for i, e := range entries {
		row := snapshotRow{
			RunID:     runID,
			Recorder:  name,
			Seq:       next + int64(i),
			RoundTrip: e.RoundTrip,
			Right:     encodeSamples(e.Right.Samples()),
		}
		if e.Pair() {
			row.Left = encodeSamples(e.Left.Samples())
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO snapshots (run_id, recorder, seq, round_trip, right_samples, left_samples)
			VALUES (:run_id, :recorder, :seq, :round_trip, :right_samples, :left_samples)
		`, row); err != nil {
			return 0, fmt.Errorf("write snapshot %d: %w", row.Seq, err)
		}
		written += int64(len(row.Right) + len(row.Left))
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write snapshots: %w", err)
	}
	return written, nil
}

// ReadSnapshots returns the snapshots of one recorder in capture order, with
// the run's sampling rate restored on every field.
func (s *Store) ReadSnapshots(ctx context.Context, runID, name string) ([]recorder.Entry, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	var rows []snapshotRow
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT run_id, recorder, seq, round_trip, right_samples, left_samples
		FROM snapshots
		WHERE run_id = ? AND recorder = ?
		ORDER BY seq ASC
	`, runID, name); err != nil {
		return nil, fmt.Errorf("read snapshots: %w", err)
	}

	entries := make([]recorder.Entry, 0, len(rows))
	for _, row := range rows {
		e := recorder.Entry{RoundTrip: row.RoundTrip}
		if e.Right, err = restoreField(row.Right, run.SamplingRate); err != nil {
			return nil, fmt.Errorf("snapshot %d: %w", row.Seq, err)
		}
		if row.Left != nil {
			if e.Left, err = restoreField(row.Left, run.SamplingRate); err != nil {
				return nil, fmt.Errorf("snapshot %d: %w", row.Seq, err)
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Recorders returns the names of the recorders with snapshots in a run.
func (s *Store) Recorders(ctx context.Context, runID string) ([]string, error) {
	names := []string{}
	if err := s.db.SelectContext(ctx, &names, `
		SELECT recorder FROM snapshots WHERE run_id = ?
		GROUP BY recorder ORDER BY MIN(rowid)
	`, runID); err != nil {
		return nil, fmt.Errorf("list recorders: %w", err)
	}
	return names, nil
}

// SnapshotCount returns the number of snapshots stored for a run.
func (s *Store) SnapshotCount(ctx context.Context, runID string) (int64, error) {
	var n sql.NullInt64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM snapshots WHERE run_id = ?`, runID); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return n.Int64, nil
}

func restoreField(data []byte, rate float64) (*field.Field, error) {
	samples, err := decodeSamples(data)
	if err != nil {
		return nil, err
	}
	f := field.FromSamples(samples)
	if rate > 0 {
		if err := f.SetSamplingRate(rate); err != nil {
			return nil, err
		}
	}
	return f, nil
}
