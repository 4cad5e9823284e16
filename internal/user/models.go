// Package user provides user account persistence.
//
// A user subscribes to air-quality alerts for a single city. The stored
// last-known AQI is the alert jobs' comparison state: nil means no alert pass
// has recorded an index for this user yet.
package user

import "time"

// User represents a registered account.
type User struct {
	// ID is the unique user identifier (UUID).
	ID string

	// Name is the user's display name.
	Name string

	// Email receives alert notifications. Users without an email are
	// skipped by the alert jobs.
	Email string

	// PasswordHash is the bcrypt hash of the user's password. Never
	// serialized.
	PasswordHash string

	// City is the registry city the user subscribed to. Empty means the
	// user receives no alerts.
	City string

	// LastAQI is the provider-scale (1-5) index recorded by the most
	// recent alert pass. Nil until a pass has run for this user.
	LastAQI *int

	// CreatedAt is when the account was created.
	CreatedAt time.Time
}

// AQIUpdate is one user's new alert state, applied in a batch at the end of
// an alert pass.
type AQIUpdate struct {
	UserID string
	AQI    *int
}
