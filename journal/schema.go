// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	instrument TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	bars INTEGER NOT NULL,
	completed INTEGER NOT NULL,
	open INTEGER NOT NULL,
	direction INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS annotations (
	run_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	time DATETIME NOT NULL,
	kind TEXT NOT NULL,
	count INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_annotations_run ON annotations(run_id, idx);
CREATE INDEX IF NOT EXISTS idx_runs_end ON runs(end_time);
`
