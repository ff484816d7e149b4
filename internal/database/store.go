package database

import "fmt"

// Store bundles the database handle with its repositories.
type Store struct {
	DB       *DB
	Runs     *RunRepository
	Profiles *ProfileRepository
}

// OpenStore opens the history database and wires the repositories.
func OpenStore(dbPath string) (*Store, error) {
	db, err := New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return &Store{
		DB:       db,
		Runs:     NewRunRepository(db),
		Profiles: NewProfileRepository(db),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.DB.Close()
}
