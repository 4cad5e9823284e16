package history

import (
	"context"
	"sort"
	"sync"
)

// Repository defines persistence for daily AQI records.
type Repository interface {
	// Upsert writes a city-day record, replacing any existing row for the
	// same location and date. Re-running a backfill therefore never
	// duplicates rows.
	Upsert(ctx context.Context, rec *Record) error

	// ListCityHistory returns up to limit stored days for a city, ordered
	// descending by date.
	ListCityHistory(ctx context.Context, cityName string, limit int) ([]CityDay, error)
}

// InMemoryRepository is an in-memory Repository used in tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*Record // key: location|date
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{records: make(map[string]*Record)}
}

// Upsert stores or replaces a record keyed by location and day.
func (r *InMemoryRepository) Upsert(_ context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := rec.LocationName + "|" + rec.Timestamp.UTC().Format("2006-01-02")
	cp := *rec
	r.records[key] = &cp
	return nil
}

// ListCityHistory returns stored days for a city, newest first.
func (r *InMemoryRepository) ListCityHistory(_ context.Context, cityName string, limit int) ([]CityDay, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var days []CityDay
	for _, rec := range r.records {
		if rec.LocationName != cityName {
			continue
		}
		days = append(days, CityDay{
			LocationName: rec.LocationName,
			AQI:          rec.AQI,
			PM25:         rec.PM25,
			PM10:         rec.PM10,
			O3:           rec.O3,
			NO2:          rec.NO2,
			SO2:          rec.SO2,
			Date:         rec.Timestamp,
		})
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})
	if limit > 0 && len(days) > limit {
		days = days[:limit]
	}
	return days, nil
}

// Len returns the number of stored records.
func (r *InMemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Ensure InMemoryRepository implements Repository.
var _ Repository = (*InMemoryRepository)(nil)
