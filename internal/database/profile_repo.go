package database

import (
	"database/sql"
	"fmt"

	"github.com/shanickcuello/linkedin-people-scrapper/internal/models"
)

// ProfileRepository stores the profiles a run collected.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db.GetConn()}
}

// Insert stores one collected record under its run and query.
func (pr *ProfileRepository) Insert(runID, query string, rec models.ProfileRecord) error {
	_, err := pr.db.Exec(`
		INSERT INTO profiles (run_id, query, name, title, company, location, profile_url, about, connections)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, query, rec.Name, rec.Title, rec.Company, rec.Location, rec.ProfileURL, rec.About, rec.Connections)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// CountByRun returns how many profiles a run stored.
func (pr *ProfileRepository) CountByRun(runID string) (int, error) {
	var count int
	err := pr.db.QueryRow(`SELECT COUNT(*) FROM profiles WHERE run_id = ?`, runID).Scan(&count)
	return count, err
}
