package user

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Repository errors.
var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists is returned when a create collides with an existing
	// email address.
	ErrEmailExists = errors.New("email already registered")
)

// Repository defines the interface for user persistence.
type Repository interface {
	// Create stores a new user. Emails are unique; a collision returns
	// ErrEmailExists.
	Create(ctx context.Context, u *User) error

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*User, error)

	// ListAlertRecipients returns every user eligible for alert passes:
	// those with both an email and a subscribed city.
	ListAlertRecipients(ctx context.Context) ([]*User, error)

	// UpdateLastAQIBatch applies the alert-state updates accumulated over
	// one pass in a single round trip.
	UpdateLastAQIBatch(ctx context.Context, updates []AQIUpdate) error
}

// InMemoryRepository is an in-memory Repository used in tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string // lower-cased email -> id
}

// NewInMemoryRepository creates an empty in-memory user repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

// Create stores a new user, enforcing email uniqueness.
func (r *InMemoryRepository) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, ok := r.byEmail[key]; ok {
		return ErrEmailExists
	}

	cp := *u
	r.byID[u.ID] = &cp
	r.byEmail[key] = u.ID
	return nil
}

// GetByEmail retrieves a user by email address.
func (r *InMemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}

// GetByID retrieves a user by ID.
func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// ListAlertRecipients returns users with both an email and a city.
func (r *InMemoryRepository) ListAlertRecipients(_ context.Context) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*User
	for _, u := range r.byID {
		if u.Email == "" || u.City == "" {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

// UpdateLastAQIBatch applies alert-state updates. Unknown IDs are ignored,
// matching the relaxed semantics of a bulk UPDATE.
func (r *InMemoryRepository) UpdateLastAQIBatch(_ context.Context, updates []AQIUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, upd := range updates {
		u, ok := r.byID[upd.UserID]
		if !ok {
			continue
		}
		u.LastAQI = upd.AQI
	}
	return nil
}

// Len returns the number of stored users.
func (r *InMemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Ensure InMemoryRepository implements Repository.
var _ Repository = (*InMemoryRepository)(nil)
