package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ezseobasics/ezseo/internal/domain/user"
)

// MemoryDirectory is an in-process Directory used in development and
// tests. Passwords are bcrypt-hashed; ids are random UUIDs.
type MemoryDirectory struct {
	mu       sync.Mutex
	byEmail  map[string]string // email -> identity id
	hashes   map[string][]byte // identity id -> password hash
	profiles map[string]user.User
}

// NewMemoryDirectory creates an empty in-memory directory
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		byEmail:  make(map[string]string),
		hashes:   make(map[string][]byte),
		profiles: make(map[string]user.User),
	}
}

// CreateIdentity registers a new identity and returns its assigned id
func (d *MemoryDirectory) CreateIdentity(ctx context.Context, email, password string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.byEmail[email]; exists {
		return "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	d.byEmail[email] = id
	d.hashes[id] = hash
	return id, nil
}

// WriteProfile stores the user document keyed by identity id
func (d *MemoryDirectory) WriteProfile(ctx context.Context, id string, u user.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles[id] = u
	return nil
}

// Authenticate verifies credentials and returns the identity id
func (d *MemoryDirectory) Authenticate(ctx context.Context, email, password string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id, ok := d.byEmail[email]
	if !ok {
		return "", ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(d.hashes[id], []byte(password)); err != nil {
		return "", ErrBadCredentials
	}
	return id, nil
}

// ReadProfile fetches the user document for an identity id
func (d *MemoryDirectory) ReadProfile(ctx context.Context, id string) (*user.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// ClearSession is a no-op for the in-memory directory
func (d *MemoryDirectory) ClearSession(ctx context.Context) error {
	return nil
}

// DeleteProfile removes a profile document without touching the
// identity, used to provoke identity/profile divergence in tests
func (d *MemoryDirectory) DeleteProfile(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.profiles, id)
}
