package accounts

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Auther verifies login attempts against the user store and exchanges
// authenticated identities for signed session tokens. It only ever reads
// accounts.
type Auther struct {
	store  UserStore
	hasher PasswordAuthenticator
	tokens TokenService
	logger Logger
}

// NewAuthenticator returns a new Auther.
func NewAuthenticator(store UserStore, tokens TokenService) *Auther {
	return &Auther{
		store:  store,
		hasher: BcryptHasher{},
		tokens: tokens,
		logger: defLogger{},
	}
}

func (a *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// WithPasswordAuthenticator overrides the credential hasher.
func (a *Auther) WithPasswordAuthenticator(hasher PasswordAuthenticator) *Auther {
	if hasher != nil {
		a.hasher = hasher
	}
	return a
}

// TokenService returns the TokenService instance used by this Auther.
func (a *Auther) TokenService() TokenService {
	return a.tokens
}

// ValidateLogin checks the credentials against the store. A failed login is
// an expected outcome: unknown email, unconfirmed account, and password
// mismatch all yield (nil, false, nil). The error return is reserved for
// infrastructure faults such as a store failure or a corrupt stored hash,
// which are fatal to the request but never to the process.
//
// On success the returned identity is sanitized; the credential hash never
// leaves the store.
func (a *Auther) ValidateLogin(ctx context.Context, email, password string) (Identity, bool, error) {
	user, err := a.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve account during login")
	}

	if user == nil || !user.Confirmed {
		return nil, false, nil
	}

	if err := a.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return nil, false, nil
		}
		a.logger.Error("credential hash could not be verified", "email", email, "error", err)
		return nil, false, errors.Wrap(err, errors.CategoryInternal, "failed to verify credential hash")
	}

	return NewIdentityFromUser(user), true, nil
}

// Login validates the credentials and issues a signed session token. It
// fails with ErrNotAuthenticated when the login does not resolve to a
// confirmed account.
func (a *Auther) Login(ctx context.Context, email, password string) (string, error) {
	identity, ok, err := a.ValidateLogin(ctx, email, password)
	if err != nil {
		return "", err
	}
	if !ok {
		a.logger.Debug("login rejected", "email", email)
		return "", ErrNotAuthenticated
	}

	token, err := a.tokens.Issue(identity)
	if err != nil {
		a.logger.Error("failed to issue session token", "error", err)
		return "", err
	}

	return token, nil
}

// IdentityFromToken implements the whoAmI read path: decode, verify the
// signature, verify expiry. Any failure means the caller is treated as
// unauthenticated.
func (a *Auther) IdentityFromToken(raw string) (Identity, error) {
	claims, err := a.tokens.Validate(raw)
	if err != nil {
		a.logger.Debug("token validation failed", "error", err)
		return nil, err
	}

	return claims.Identity(), nil
}
