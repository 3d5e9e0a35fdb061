package accounts

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-errors"
)

// RegisterPayload carries the fields a new registration needs. The password
// is deliberately absent; it is only collected at confirmation time.
type RegisterPayload struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Validate will run validation rules
func (p RegisterPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&p,
			validation.Field(
				&p.Email,
				validation.Required,
				is.Email,
			),
			validation.Field(
				&p.Username,
				validation.Required,
			),
		)
	}, "invalid registration payload")
}

// ConfirmPayload carries the request body of a confirmation. Email selects
// the account to mutate; the confirmation key is the authority that the
// caller may confirm at all.
type ConfirmPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (p ConfirmPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&p,
			validation.Field(
				&p.Email,
				validation.Required,
				is.Email,
			),
			validation.Field(
				&p.Password,
				validation.Required,
			),
		)
	}, "invalid confirmation payload")
}

// Registrar orchestrates account creation and activation. It owns the only
// mutation path of the user and confirmation collections; authentication
// components read, never write.
type Registrar struct {
	store           Store
	hasher          PasswordAuthenticator
	confirmationTTL time.Duration
	logger          Logger
	now             func() time.Time
}

// NewRegistrar returns a Registrar backed by the given store, with the
// confirmation TTL taken from opts.
func NewRegistrar(store Store, opts Config) *Registrar {
	return &Registrar{
		store:           store,
		hasher:          BcryptHasher{},
		confirmationTTL: opts.GetConfirmationTTL(),
		logger:          defLogger{},
		now:             time.Now,
	}
}

func (r *Registrar) WithLogger(logger Logger) *Registrar {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// WithPasswordAuthenticator overrides the credential hasher.
func (r *Registrar) WithPasswordAuthenticator(hasher PasswordAuthenticator) *Registrar {
	if hasher != nil {
		r.hasher = hasher
	}
	return r
}

// WithClock overrides the time source used for expiry checks, mostly for tests.
func (r *Registrar) WithClock(now func() time.Time) *Registrar {
	if now != nil {
		r.now = now
	}
	return r
}

// Register creates an unconfirmed account and a confirmation for it. The
// confirmation key travels back to the caller; delivering it is out of scope
// here. Conflicts on email or username propagate as-is.
//
// Registering again for the same email fails on the email conflict, so a
// prior live confirmation is never invalidated by this path; duplicates for
// one email can only accumulate through direct store use and are all swept
// when a confirmation is consumed.
func (r *Registrar) Register(ctx context.Context, email, username string) (*Confirmation, error) {
	select {
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), errors.CategoryOperation, "context cancelled during registration")
	default:
	}

	payload := RegisterPayload{Email: email, Username: username}
	if verr := payload.Validate(); verr != nil {
		return nil, verr
	}

	user, err := r.store.CreateUser(ctx, email, username)
	if err != nil {
		return nil, err
	}

	confirmation, err := r.store.CreateConfirmation(ctx, user.Email, r.confirmationTTL)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create confirmation")
	}

	r.logger.Debug("registered account", "email", user.Email, "username", user.Username)

	return confirmation, nil
}

// Confirm consumes a confirmation key and activates an account: it hashes
// the supplied password, stores the hash, and marks the account confirmed.
//
// The key is looked up first; an expired record fails the request but stays
// in place. The account to mutate is selected by the caller-supplied email,
// not by the email embedded in the confirmation; the two are expected to
// match but nothing enforces it. On success every confirmation held for that
// email is removed.
func (r *Registrar) Confirm(ctx context.Context, key, email, password string) error {
	select {
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), errors.CategoryOperation, "context cancelled during confirmation")
	default:
	}

	payload := ConfirmPayload{Email: email, Password: password}
	if verr := payload.Validate(); verr != nil {
		return verr
	}

	confirmation, err := r.store.FindConfirmationByKey(ctx, key)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to look up confirmation")
	}
	if confirmation == nil {
		return NewConfirmationNotFound()
	}

	if confirmation.ExpiredAt(r.now()) {
		return NewConfirmationExpired()
	}

	user, err := r.store.FindByEmail(ctx, email)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to look up account")
	}
	if user == nil {
		return NewAccountNotFound(email)
	}

	hash, err := r.hasher.HashPassword(password)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	if _, err := r.store.ApplyConfirmation(ctx, user.Email, hash); err != nil {
		return err
	}

	// Deleting by email rather than key sweeps any duplicate confirmation
	// still live for this account.
	if err := r.store.DeleteConfirmationByEmail(ctx, user.Email); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete confirmation")
	}

	r.logger.Info("confirmed account", "email", user.Email)

	return nil
}
