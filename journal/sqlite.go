package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, instrument, timeframe, start_time, end_time, bars, completed, open, direction)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Instrument, r.Timeframe, r.Start, r.End,
		r.Bars, r.Completed, r.Open, r.Direction,
	)
	return err
}

func (j *SQLite) RecordAnnotation(a AnnotationRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO annotations
		(run_id, idx, time, kind, count)
		VALUES (?, ?, ?, ?, ?)`,
		a.RunID, a.Index, a.Time, a.Kind, a.Count,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
