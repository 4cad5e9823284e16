// Package city provides the canonical registry of cities the service tracks.
// One registry backs the cities endpoint, the historical backfill, and the
// alert jobs, so the three consumers can never diverge.
package city

import (
	"errors"
	"strings"
)

// ErrCityNotFound is returned when a name does not resolve to a registered
// city. It is distinct from an undefined AQI result: the lookup failed before
// any data was fetched.
var ErrCityNotFound = errors.New("city not found in registry")

// City is a registered location with stable coordinates.
type City struct {
	Name     string
	Province string
	Lat      float64
	Lon      float64
}

// Registry holds the fixed city list.
type Registry struct {
	cities []City
	byKey  map[string]City
}

// NewRegistry creates a registry over the given cities. Lookup keys are the
// lower-cased city names.
func NewRegistry(cities []City) *Registry {
	byKey := make(map[string]City, len(cities))
	for _, c := range cities {
		byKey[strings.ToLower(c.Name)] = c
	}
	return &Registry{cities: cities, byKey: byKey}
}

// Default returns the registry of major cities the service monitors.
func Default() *Registry {
	return NewRegistry([]City{
		{Name: "Karachi", Province: "Sindh", Lat: 24.8607, Lon: 67.0011},
		{Name: "Lahore", Province: "Punjab", Lat: 31.5204, Lon: 74.3587},
		{Name: "Islamabad", Province: "Islamabad Capital Territory", Lat: 33.6844, Lon: 73.0479},
		{Name: "Rawalpindi", Province: "Punjab", Lat: 33.5651, Lon: 73.0169},
		{Name: "Peshawar", Province: "Khyber Pakhtunkhwa", Lat: 34.0151, Lon: 71.5249},
		{Name: "Quetta", Province: "Balochistan", Lat: 30.1798, Lon: 66.975},
		{Name: "Faisalabad", Province: "Punjab", Lat: 31.4181, Lon: 73.0776},
		{Name: "Multan", Province: "Punjab", Lat: 30.1575, Lon: 71.5249},
	})
}

// Lookup resolves a city name (case-insensitive) to its registry entry.
func (r *Registry) Lookup(name string) (City, error) {
	c, ok := r.byKey[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return City{}, ErrCityNotFound
	}
	return c, nil
}

// All returns the registered cities in registration order.
func (r *Registry) All() []City {
	out := make([]City, len(r.cities))
	copy(out, r.cities)
	return out
}

// Len returns the number of registered cities.
func (r *Registry) Len() int {
	return len(r.cities)
}
