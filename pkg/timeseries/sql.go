package timeseries

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLStore reads aggregates from the ingested time_series_data table.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQL connects to the database and returns a store over it.
func NewSQL(driver, dsn string) (*SQLStore, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to time-series store: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// NewSQLFromDB wraps an existing connection.
func NewSQLFromDB(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// SectorObservations implements Store.
func (s *SQLStore) SectorObservations(ctx context.Context, sector string) (int, error) {
	query := s.db.Rebind(`SELECT COUNT(t.id)
		FROM time_series_data t
		JOIN sectors s ON s.id = t.sector_id
		WHERE s.slug = ?`)

	var count int
	if err := s.db.GetContext(ctx, &count, query, sector); err != nil {
		return 0, fmt.Errorf("counting observations for %s: %w", sector, err)
	}
	return count, nil
}

// HasMacroData implements Store.
func (s *SQLStore) HasMacroData(ctx context.Context) (bool, error) {
	const query = `SELECT COUNT(id) FROM time_series_data
		WHERE LOWER(source) LIKE '%economic%'`

	var count int
	if err := s.db.GetContext(ctx, &count, query); err != nil {
		return false, fmt.Errorf("counting macro rows: %w", err)
	}
	return count > 0, nil
}

// Close releases the underlying connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
