package accounts

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// MemoryStore is the reference Store: volatile, single-process, with every
// operation serialized behind one mutex so concurrent registrations cannot
// both claim the same email or username.
//
// Expired confirmations are never evicted here; expiry is observed by the
// Registrar at lookup time.
type MemoryStore struct {
	mu            sync.Mutex
	users         map[string]*User         // email -> account
	usernames     map[string]string        // username -> email
	confirmations map[string]*Confirmation // key -> confirmation
	now           func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         map[string]*User{},
		usernames:     map[string]string{},
		confirmations: map[string]*Confirmation{},
		now:           time.Now,
	}
}

// WithClock overrides the time source, mostly for tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	if now != nil {
		s.now = now
	}
	return s
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) CreateUser(ctx context.Context, email, username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[email]; ok {
		return nil, NewConflictError("email")
	}

	if _, ok := s.usernames[username]; ok {
		return nil, NewConflictError("username")
	}

	registeredAt := s.now()
	user := &User{
		Email:        email,
		Username:     username,
		RegisteredAt: &registeredAt,
	}

	if id, err := hashid.NewUUID(email); err == nil {
		user.ID = id
	} else {
		user.ID = uuid.New()
	}

	s.users[email] = user
	s.usernames[username] = email

	return user.copy(), nil
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.users[email].copy(), nil
}

func (s *MemoryStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, ok := s.usernames[username]
	if !ok {
		return nil, nil
	}
	return s.users[email].copy(), nil
}

func (s *MemoryStore) DeleteByEmail(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[email]; ok {
		delete(s.usernames, user.Username)
		delete(s.users, email)
	}
	s.deleteConfirmationsLocked(email)

	return nil
}

func (s *MemoryStore) ApplyConfirmation(ctx context.Context, email, passwordHash string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return nil, NewAccountNotFound(email)
	}

	confirmedAt := s.now()
	user.PasswordHash = passwordHash
	user.Confirmed = true
	user.ConfirmedAt = &confirmedAt

	return user.copy(), nil
}

func (s *MemoryStore) CreateConfirmation(ctx context.Context, email string, ttl time.Duration) (*Confirmation, error) {
	key, err := newConfirmationKey()
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to generate confirmation key")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	confirmation := &Confirmation{
		ID:        uuid.New(),
		Key:       key,
		Email:     email,
		ExpiresAt: s.now().Add(ttl),
	}
	s.confirmations[key] = confirmation

	return confirmation.copy(), nil
}

func (s *MemoryStore) FindConfirmationByKey(ctx context.Context, key string) (*Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.confirmations[key].copy(), nil
}

func (s *MemoryStore) FindConfirmationByEmail(ctx context.Context, email string) (*Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, confirmation := range s.confirmations {
		if confirmation.Email == email {
			return confirmation.copy(), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) DeleteConfirmationByKey(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.confirmations, key)
	return nil
}

func (s *MemoryStore) DeleteConfirmationByEmail(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteConfirmationsLocked(email)
	return nil
}

// deleteConfirmationsLocked removes every confirmation for the email, so a
// consume invalidates duplicates created by repeated registrations.
func (s *MemoryStore) deleteConfirmationsLocked(email string) {
	for key, confirmation := range s.confirmations {
		if confirmation.Email == email {
			delete(s.confirmations, key)
		}
	}
}

// copy keeps callers from mutating store-owned records; the Registrar owns
// the only mutation path.
func (u *User) copy() *User {
	if u == nil {
		return nil
	}
	out := *u
	if u.RegisteredAt != nil {
		registeredAt := *u.RegisteredAt
		out.RegisteredAt = &registeredAt
	}
	if u.ConfirmedAt != nil {
		confirmedAt := *u.ConfirmedAt
		out.ConfirmedAt = &confirmedAt
	}
	return &out
}

func (c *Confirmation) copy() *Confirmation {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

// newConfirmationKey returns 16 bytes from a cryptographically secure source,
// base64 encoded. Keys must be unpredictable, never sequential.
func newConfirmationKey() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
