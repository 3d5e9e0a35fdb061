package accounts_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	accounts "github.com/goliatone/go-accounts"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestBunStore(t *testing.T) *accounts.BunStore {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	_, err = db.NewCreateTable().Model((*accounts.User)(nil)).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewCreateTable().Model((*accounts.Confirmation)(nil)).Exec(ctx)
	require.NoError(t, err)

	return accounts.NewBunStore(db)
}

func TestBunStoreCreateUser(t *testing.T) {
	ctx := context.Background()
	store := newTestBunStore(t)

	user, err := store.CreateUser(ctx, "a@x.com", "alice")
	require.NoError(t, err)
	assert.False(t, user.Confirmed)
	assert.Empty(t, user.PasswordHash)
	assert.NotNil(t, user.RegisteredAt)

	_, err = store.CreateUser(ctx, "a@x.com", "bob")
	require.Error(t, err)
	assert.Equal(t, "email", accounts.ConflictProperty(err))

	_, err = store.CreateUser(ctx, "b@x.com", "alice")
	require.Error(t, err)
	assert.Equal(t, "username", accounts.ConflictProperty(err))

	// email check wins when both collide
	_, err = store.CreateUser(ctx, "a@x.com", "alice")
	require.Error(t, err)
	assert.Equal(t, "email", accounts.ConflictProperty(err))
}

func TestBunStoreFinds(t *testing.T) {
	ctx := context.Background()
	store := newTestBunStore(t)

	_, err := store.CreateUser(ctx, "a@x.com", "alice")
	require.NoError(t, err)

	byEmail, err := store.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "alice", byEmail.Username)

	byUsername, err := store.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byUsername)
	assert.Equal(t, "a@x.com", byUsername.Email)

	missing, err := store.FindByEmail(ctx, "nobody@x.com")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBunStoreApplyConfirmation(t *testing.T) {
	ctx := context.Background()
	store := newTestBunStore(t)

	_, err := store.CreateUser(ctx, "a@x.com", "alice")
	require.NoError(t, err)

	user, err := store.ApplyConfirmation(ctx, "a@x.com", "hash-value")
	require.NoError(t, err)
	assert.True(t, user.Confirmed)
	assert.Equal(t, "hash-value", user.PasswordHash)
	assert.NotNil(t, user.ConfirmedAt)

	_, err = store.ApplyConfirmation(ctx, "nobody@x.com", "hash-value")
	require.Error(t, err)
	assert.True(t, goerrors.IsNotFound(err))
}

func TestBunStoreConfirmations(t *testing.T) {
	ctx := context.Background()
	store := newTestBunStore(t)

	confirmation, err := store.CreateConfirmation(ctx, "a@x.com", 10*time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, confirmation.Key)

	byKey, err := store.FindConfirmationByKey(ctx, confirmation.Key)
	require.NoError(t, err)
	require.NotNil(t, byKey)
	assert.Equal(t, "a@x.com", byKey.Email)

	byEmail, err := store.FindConfirmationByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)

	require.NoError(t, store.DeleteConfirmationByEmail(ctx, "a@x.com"))

	gone, err := store.FindConfirmationByKey(ctx, confirmation.Key)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// idempotent
	assert.NoError(t, store.DeleteConfirmationByKey(ctx, confirmation.Key))
}

func TestBunStoreDeleteByEmail(t *testing.T) {
	ctx := context.Background()
	store := newTestBunStore(t)

	_, err := store.CreateUser(ctx, "a@x.com", "alice")
	require.NoError(t, err)
	_, err = store.CreateConfirmation(ctx, "a@x.com", time.Minute)
	require.NoError(t, err)

	require.NoError(t, store.DeleteByEmail(ctx, "a@x.com"))

	user, err := store.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, user)

	confirmation, err := store.FindConfirmationByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, confirmation)

	// the username is free again and deletes stay idempotent
	_, err = store.CreateUser(ctx, "b@x.com", "alice")
	assert.NoError(t, err)
	assert.NoError(t, store.DeleteByEmail(ctx, "a@x.com"))
}

func TestBunStoreDrivesRegistrationFlow(t *testing.T) {
	ctx := context.Background()
	store := newTestBunStore(t)

	registrar := accounts.NewRegistrar(store, newTestConfig()).
		WithPasswordAuthenticator(plainHasher{})

	confirmation, err := registrar.Register(ctx, "a@x.com", "alice")
	require.NoError(t, err)
	require.NoError(t, registrar.Confirm(ctx, confirmation.Key, "a@x.com", "pw1"))

	user, err := store.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, user.Confirmed)
	assert.NoError(t, plainHasher{}.ComparePasswordAndHash("pw1", user.PasswordHash))
}
