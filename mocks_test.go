package accounts_test

import (
	"context"
	"time"

	accounts "github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/mock"
)

// plainHasher keeps flow tests fast; bcrypt behavior is covered by its own
// suite.
type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", accounts.ErrNoEmptyString
	}
	return "plain:" + password, nil
}

func (plainHasher) ComparePasswordAndHash(password, hash string) error {
	if hash != "plain:"+password {
		return accounts.ErrMismatchedHashAndPassword
	}
	return nil
}

// MockStore implements accounts.Store for failure-path tests
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateUser(ctx context.Context, email, username string) (*accounts.User, error) {
	args := m.Called(ctx, email, username)
	user, _ := args.Get(0).(*accounts.User)
	return user, args.Error(1)
}

func (m *MockStore) FindByEmail(ctx context.Context, email string) (*accounts.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*accounts.User)
	return user, args.Error(1)
}

func (m *MockStore) FindByUsername(ctx context.Context, username string) (*accounts.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*accounts.User)
	return user, args.Error(1)
}

func (m *MockStore) DeleteByEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockStore) ApplyConfirmation(ctx context.Context, email, passwordHash string) (*accounts.User, error) {
	args := m.Called(ctx, email, passwordHash)
	user, _ := args.Get(0).(*accounts.User)
	return user, args.Error(1)
}

func (m *MockStore) CreateConfirmation(ctx context.Context, email string, ttl time.Duration) (*accounts.Confirmation, error) {
	args := m.Called(ctx, email, ttl)
	confirmation, _ := args.Get(0).(*accounts.Confirmation)
	return confirmation, args.Error(1)
}

func (m *MockStore) FindConfirmationByKey(ctx context.Context, key string) (*accounts.Confirmation, error) {
	args := m.Called(ctx, key)
	confirmation, _ := args.Get(0).(*accounts.Confirmation)
	return confirmation, args.Error(1)
}

func (m *MockStore) FindConfirmationByEmail(ctx context.Context, email string) (*accounts.Confirmation, error) {
	args := m.Called(ctx, email)
	confirmation, _ := args.Get(0).(*accounts.Confirmation)
	return confirmation, args.Error(1)
}

func (m *MockStore) DeleteConfirmationByKey(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStore) DeleteConfirmationByEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// testConfig is a static accounts.Config for tests
type testConfig struct {
	signingKey      string
	tokenTTL        time.Duration
	confirmationTTL time.Duration
}

func (c testConfig) GetSigningKey() string {
	return c.signingKey
}

func (c testConfig) GetTokenTTL() time.Duration {
	return c.tokenTTL
}

func (c testConfig) GetConfirmationTTL() time.Duration {
	return c.confirmationTTL
}

func newTestConfig() testConfig {
	return testConfig{
		signingKey:      "test-signing-key",
		tokenTTL:        10 * time.Minute,
		confirmationTTL: 10 * time.Minute,
	}
}
