package journal

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, dataset, mode, l, p, n, t_stat, avg_var, diff, shifts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Dataset, r.Mode, r.L, r.P, r.N,
		r.TStat, r.AvgVar, r.Diff, r.Shifts,
	)
	return err
}

func (j *SQLiteJournal) RecordShift(s ShiftRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO shifts
		(run_id, idx, time, rsi, mean_before, mean_after)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.RunID, s.Index, s.Time, s.RSI, s.MeanBefore, s.MeanAfter,
	)
	return err
}

// GetRun returns a single run by ID.
func (j *SQLiteJournal) GetRun(runID string) (RunRecord, error) {
	row := j.db.QueryRow(`
		SELECT run_id, created, dataset, mode, l, p, n, t_stat, avg_var, diff, shifts
		FROM runs
		WHERE run_id = ?`, runID)

	rec, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (j *SQLiteJournal) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := j.db.Query(`
		SELECT run_id, created, dataset, mode, l, p, n, t_stat, avg_var, diff, shifts
		FROM runs
		ORDER BY created DESC, run_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListShiftsByRunID returns a run's shifts in index order.
func (j *SQLiteJournal) ListShiftsByRunID(runID string) ([]ShiftRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, idx, time, rsi, mean_before, mean_after
		FROM shifts
		WHERE run_id = ?
		ORDER BY idx ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ShiftRecord
	for rows.Next() {
		var rec ShiftRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Index,
			&rec.Time,
			&rec.RSI,
			&rec.MeanBefore,
			&rec.MeanAfter,
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

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (RunRecord, error) {
	var rec RunRecord
	err := s.Scan(
		&rec.RunID,
		&rec.Created,
		&rec.Dataset,
		&rec.Mode,
		&rec.L,
		&rec.P,
		&rec.N,
		&rec.TStat,
		&rec.AvgVar,
		&rec.Diff,
		&rec.Shifts,
	)
	return rec, err
}
