package accounts

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var applyConfirmationSQL = `UPDATE "users" AS "usr"
SET
	"is_confirmed" = TRUE,
	"password_hash" = ?,
	"confirmed_at" = ?
WHERE
	"usr"."email" = ?
RETURNING *;`

// BunStore implements the Store contracts on top of Bun, for deployments
// that want accounts to outlive the process. Uniqueness is enforced by a
// pre-check inside a transaction, so callers get the typed conflict error
// instead of a driver error (the unique columns back it up at the schema
// level).
type BunStore struct {
	db            *bun.DB
	users         repository.Repository[*User]
	confirmations repository.Repository[*Confirmation]
	now           func() time.Time
}

// NewBunStore creates a Store backed by the given database.
func NewBunStore(db *bun.DB) *BunStore {
	users := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
	})

	confirmations := repository.NewRepository[*Confirmation](db, repository.ModelHandlers[*Confirmation]{
		NewRecord: func() *Confirmation { return &Confirmation{} },
		GetID: func(c *Confirmation) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Confirmation, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
	})

	return &BunStore{
		db:            db,
		users:         users,
		confirmations: confirmations,
		now:           time.Now,
	}
}

// WithClock overrides the time source, mostly for tests.
func (s *BunStore) WithClock(now func() time.Time) *BunStore {
	if now != nil {
		s.now = now
	}
	return s
}

var _ Store = (*BunStore)(nil)

func (s *BunStore) CreateUser(ctx context.Context, email, username string) (*User, error) {
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

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		emailTaken, err := tx.NewSelect().
			Model((*User)(nil)).
			Where("?TableAlias.email = ?", email).
			Exists(ctx)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to check email uniqueness")
		}
		if emailTaken {
			return NewConflictError("email")
		}

		usernameTaken, err := tx.NewSelect().
			Model((*User)(nil)).
			Where("?TableAlias.username = ?", username).
			Exists(ctx)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to check username uniqueness")
		}
		if usernameTaken {
			return NewConflictError("username")
		}

		if user, err = s.users.CreateTx(ctx, tx, user); err != nil {
			return errors.Wrap(err, errors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "user creation transaction failed")
	}

	return user, nil
}

func (s *BunStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findUser(ctx, "email", email)
}

func (s *BunStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.findUser(ctx, "username", username)
}

func (s *BunStore) findUser(ctx context.Context, column, value string) (*User, error) {
	record := &User{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up user")
	}

	return record, nil
}

func (s *BunStore) DeleteByEmail(ctx context.Context, email string) error {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*User)(nil)).
			Where("?TableAlias.email = ?", email).
			Exec(ctx); err != nil {
			return err
		}

		_, err := tx.NewDelete().
			Model((*Confirmation)(nil)).
			Where("?TableAlias.email = ?", email).
			Exec(ctx)
		return err
	})

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete account")
	}

	return nil
}

func (s *BunStore) ApplyConfirmation(ctx context.Context, email, passwordHash string) (*User, error) {
	res, err := s.users.RawTx(ctx, s.db, applyConfirmationSQL, passwordHash, s.now(), email)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to apply confirmation")
	}

	if len(res) == 0 {
		return nil, NewAccountNotFound(email)
	}

	return res[0], nil
}

func (s *BunStore) CreateConfirmation(ctx context.Context, email string, ttl time.Duration) (*Confirmation, error) {
	key, err := newConfirmationKey()
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to generate confirmation key")
	}

	confirmation := &Confirmation{
		ID:        uuid.New(),
		Key:       key,
		Email:     email,
		ExpiresAt: s.now().Add(ttl),
	}

	if confirmation, err = s.confirmations.CreateTx(ctx, s.db, confirmation); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create confirmation")
	}

	return confirmation, nil
}

func (s *BunStore) FindConfirmationByKey(ctx context.Context, key string) (*Confirmation, error) {
	return s.findConfirmation(ctx, "confirmation_key", key)
}

func (s *BunStore) FindConfirmationByEmail(ctx context.Context, email string) (*Confirmation, error) {
	return s.findConfirmation(ctx, "email", email)
}

func (s *BunStore) findConfirmation(ctx context.Context, column, value string) (*Confirmation, error) {
	record := &Confirmation{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up confirmation")
	}

	return record, nil
}

func (s *BunStore) DeleteConfirmationByKey(ctx context.Context, key string) error {
	return s.deleteConfirmations(ctx, "confirmation_key", key)
}

func (s *BunStore) DeleteConfirmationByEmail(ctx context.Context, email string) error {
	return s.deleteConfirmations(ctx, "email", email)
}

func (s *BunStore) deleteConfirmations(ctx context.Context, column, value string) error {
	if _, err := s.db.NewDelete().
		Model((*Confirmation)(nil)).
		Where("?TableAlias."+column+" = ?", value).
		Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete confirmation")
	}
	return nil
}
