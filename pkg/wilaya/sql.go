package wilaya

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver
)

// SQLResolver reads regions from a wilayas table. Works with the postgres
// and sqlite drivers; placeholders are rebound per driver.
type SQLResolver struct {
	db *sqlx.DB
}

// NewSQL connects to the database and returns a resolver over it.
func NewSQL(driver, dsn string) (*SQLResolver, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to wilaya store: %w", err)
	}
	return &SQLResolver{db: db}, nil
}

// NewSQLFromDB wraps an existing connection.
func NewSQLFromDB(db *sqlx.DB) *SQLResolver {
	return &SQLResolver{db: db}
}

type wilayaRow struct {
	Code       string          `db:"code"`
	Name       string          `db:"name_en"`
	Latitude   sql.NullFloat64 `db:"latitude"`
	Longitude  sql.NullFloat64 `db:"longitude"`
	Population sql.NullInt64   `db:"population"`
	Region     sql.NullString  `db:"region"`
	AreaKm2    sql.NullFloat64 `db:"area_km2"`
}

// Lookup implements Resolver.
func (r *SQLResolver) Lookup(ctx context.Context, code string) (*Wilaya, error) {
	query := r.db.Rebind(`SELECT code, name_en, latitude, longitude, population, region, area_km2
		FROM wilayas WHERE code = ?`)

	var row wilayaRow
	if err := r.db.GetContext(ctx, &row, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying wilaya %s: %w", code, err)
	}

	return &Wilaya{
		Code:       row.Code,
		Name:       row.Name,
		Latitude:   row.Latitude.Float64,
		Longitude:  row.Longitude.Float64,
		Population: int(row.Population.Int64),
		Region:     row.Region.String,
		AreaKm2:    row.AreaKm2.Float64,
	}, nil
}

// DB exposes the underlying connection so other stores can share it.
func (r *SQLResolver) DB() *sqlx.DB {
	return r.db
}

// Close releases the underlying connection.
func (r *SQLResolver) Close() error {
	return r.db.Close()
}
