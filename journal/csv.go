// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	runs  *csv.Writer
	anns  *csv.Writer
	rf, a *os.File
}

func NewCSV(runsPath, annotationsPath string) (*CSVJournal, error) {
	rf, err := os.Create(runsPath)
	if err != nil {
		return nil, err
	}
	af, err := os.Create(annotationsPath)
	if err != nil {
		return nil, err
	}

	rw := csv.NewWriter(rf)
	aw := csv.NewWriter(af)

	if err := rw.Write([]string{"run_id", "instrument", "timeframe", "start", "end", "bars", "completed", "open", "direction"}); err != nil {
		return nil, err
	}
	if err := aw.Write([]string{"run_id", "index", "time", "kind", "count"}); err != nil {
		return nil, err
	}

	rw.Flush()
	if err := rw.Error(); err != nil {
		return nil, err
	}
	aw.Flush()
	if err := aw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{rw, aw, rf, af}, nil
}

func (j *CSVJournal) RecordRun(r RunRecord) error {
	err := j.runs.Write([]string{
		r.RunID,
		r.Instrument,
		r.Timeframe,
		r.Start.UTC().Format(time.RFC3339),
		r.End.UTC().Format(time.RFC3339),
		strconv.Itoa(r.Bars),
		strconv.Itoa(r.Completed),
		strconv.FormatBool(r.Open),
		strconv.Itoa(r.Direction),
	})
	if err != nil {
		return err
	}
	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSVJournal) RecordAnnotation(a AnnotationRecord) error {
	err := j.anns.Write([]string{
		a.RunID,
		strconv.Itoa(a.Index),
		a.Time.UTC().Format(time.RFC3339),
		a.Kind,
		strconv.Itoa(a.Count),
	})
	if err != nil {
		return err
	}
	j.anns.Flush()
	return j.anns.Error()
}

func (j *CSVJournal) Close() error {
	j.runs.Flush()
	if err := j.runs.Error(); err != nil {
		return err
	}
	j.anns.Flush()
	if err := j.anns.Error(); err != nil {
		return err
	}

	if err := j.rf.Close(); err != nil {
		return err
	}
	if err := j.a.Close(); err != nil {
		return err
	}
	return nil
}
