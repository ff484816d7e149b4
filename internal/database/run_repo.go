package database

import (
	"database/sql"
	"time"
)

// RunRepository records each run's lifetime and outcome.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db.GetConn()}
}

// StartRun inserts the run row at the start of a run.
func (rr *RunRepository) StartRun(runID string, queries int, outputPath string) error {
	_, err := rr.db.Exec(`
		INSERT INTO runs (id, started_at, queries, status, output_path)
		VALUES (?, ?, ?, 'running', ?)
	`, runID, time.Now().UTC(), queries, outputPath)
	return err
}

// FinishRun closes out the run row with its final status and profile count.
func (rr *RunRepository) FinishRun(runID string, profiles int, status string) error {
	_, err := rr.db.Exec(`
		UPDATE runs
		SET finished_at = ?, profiles = ?, status = ?
		WHERE id = ?
	`, time.Now().UTC(), profiles, status, runID)
	return err
}
