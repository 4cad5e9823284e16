package history

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository backed by
// the aqi_data table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL history repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Upsert writes a city-day record. The table carries a unique index on
// (location_name, timestamp::date) so re-running a backfill updates rows in
// place instead of appending duplicates.
func (r *PostgresRepository) Upsert(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO aqi_data (
			location_name, lat, lon, aqi, co, no, no2, o3, so2, pm2_5, pm10, nh3, timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (location_name, (timestamp::date)) DO UPDATE SET
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon,
			aqi = EXCLUDED.aqi,
			co = EXCLUDED.co,
			no = EXCLUDED.no,
			no2 = EXCLUDED.no2,
			o3 = EXCLUDED.o3,
			so2 = EXCLUDED.so2,
			pm2_5 = EXCLUDED.pm2_5,
			pm10 = EXCLUDED.pm10,
			nh3 = EXCLUDED.nh3,
			timestamp = EXCLUDED.timestamp
	`

	_, err := r.pool.Exec(ctx, query,
		rec.LocationName,
		rec.Lat,
		rec.Lon,
		rec.AQI,
		rec.CO,
		rec.NO,
		rec.NO2,
		rec.O3,
		rec.SO2,
		rec.PM25,
		rec.PM10,
		rec.NH3,
		rec.Timestamp,
	)
	return err
}

// ListCityHistory returns up to limit stored days for a city, newest first.
func (r *PostgresRepository) ListCityHistory(ctx context.Context, cityName string, limit int) ([]CityDay, error) {
	query := `
		SELECT
			location_name,
			aqi,
			pm2_5,
			pm10,
			o3,
			no2,
			so2,
			timestamp::date AS date
		FROM aqi_data
		WHERE location_name = $1
		ORDER BY date DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, cityName, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []CityDay
	for rows.Next() {
		var d CityDay
		if err := rows.Scan(&d.LocationName, &d.AQI, &d.PM25, &d.PM10, &d.O3, &d.NO2, &d.SO2, &d.Date); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// Ensure PostgresRepository implements Repository.
var _ Repository = (*PostgresRepository)(nil)
