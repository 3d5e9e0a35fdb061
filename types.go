package accounts

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the public attributes of an account. Implementations never
// expose the credential hash.
type Identity interface {
	ID() string
	Username() string
	Email() string
}

// UserStore is the keyed storage of account records. Lookups return
// (nil, nil) when no record matches; absence is a normal result, not an
// error. Mutations that would violate an invariant return a typed error.
type UserStore interface {
	// CreateUser inserts an unconfirmed account with an empty credential
	// hash. It fails with a conflict error when the email or username is
	// already taken; the email check wins when both collide.
	CreateUser(ctx context.Context, email, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	// DeleteByEmail removes the account and any confirmation held for that
	// email. It is a no-op when nothing matches.
	DeleteByEmail(ctx context.Context, email string) error
	// ApplyConfirmation sets the credential hash and marks the account
	// confirmed. This is the only mutation an account ever receives.
	ApplyConfirmation(ctx context.Context, email, passwordHash string) (*User, error)
}

// ConfirmationStore is the keyed storage of pending confirmations.
type ConfirmationStore interface {
	CreateConfirmation(ctx context.Context, email string, ttl time.Duration) (*Confirmation, error)
	FindConfirmationByKey(ctx context.Context, key string) (*Confirmation, error)
	FindConfirmationByEmail(ctx context.Context, email string) (*Confirmation, error)
	DeleteConfirmationByKey(ctx context.Context, key string) error
	DeleteConfirmationByEmail(ctx context.Context, email string) error
}

// Store combines both collections behind one owner, the shape the Registrar
// consumes.
type Store interface {
	UserStore
	ConfirmationStore
}

// PasswordAuthenticator hashes and verifies credentials
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// TokenService issues and validates signed session tokens
type TokenService interface {
	Issue(identity Identity) (string, error)
	Validate(raw string) (*SessionClaims, error)
}

// Config holds accounts options
type Config interface {
	GetSigningKey() string
	GetConfirmationTTL() time.Duration
	GetTokenTTL() time.Duration
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
