package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetRun returns a single run record by ID.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord

	row := j.db.QueryRow(`
		SELECT run_id, instrument, timeframe, start_time, end_time, bars, completed, open, direction
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&rec.RunID,
		&rec.Instrument,
		&rec.Timeframe,
		&rec.Start,
		&rec.End,
		&rec.Bars,
		&rec.Completed,
		&rec.Open,
		&rec.Direction,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListAnnotations returns a run's label events in bar order.
func (j *SQLite) ListAnnotations(runID string) ([]AnnotationRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, idx, time, kind, count
		FROM annotations
		WHERE run_id = ?
		ORDER BY idx ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnnotationRecord
	for rows.Next() {
		var rec AnnotationRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Index,
			&rec.Time,
			&rec.Kind,
			&rec.Count,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRunsBetween returns runs whose end_time is within [start, end).
func (j *SQLite) ListRunsBetween(start, end time.Time) ([]RunRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, instrument, timeframe, start_time, end_time, bars, completed, open, direction
		FROM runs
		WHERE end_time >= ? AND end_time < ?
		ORDER BY end_time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Instrument,
			&rec.Timeframe,
			&rec.Start,
			&rec.End,
			&rec.Bars,
			&rec.Completed,
			&rec.Open,
			&rec.Direction,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
