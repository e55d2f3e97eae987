package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	dataset TEXT NOT NULL,
	mode TEXT NOT NULL,
	l INTEGER NOT NULL,
	p REAL NOT NULL,
	n INTEGER NOT NULL,
	t_stat REAL NOT NULL,
	avg_var REAL NOT NULL,
	diff REAL NOT NULL,
	shifts INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS shifts (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	idx INTEGER NOT NULL,
	time DATETIME NOT NULL,
	rsi REAL NOT NULL,
	mean_before REAL NOT NULL,
	mean_after REAL NOT NULL,
	PRIMARY KEY (run_id, idx)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created);
`
