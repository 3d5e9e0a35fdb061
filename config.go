package accounts

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-errors"
)

// EnvConfig loads accounts options from environment variables. The signing
// secret has no default on purpose; a build must not ship with a baked-in
// key, so loading fails when TOKEN_SECRET is unset.
type EnvConfig struct {
	SigningKey      string        `env:"TOKEN_SECRET,required,notEmpty"`
	TokenTTL        time.Duration `env:"TOKEN_VALID_TIME" envDefault:"10m"`
	ConfirmationTTL time.Duration `env:"CONFIRMATION_VALID_TIME" envDefault:"10m"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to load accounts configuration")
	}
	return cfg, nil
}

func (c *EnvConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *EnvConfig) GetTokenTTL() time.Duration {
	return c.TokenTTL
}

func (c *EnvConfig) GetConfirmationTTL() time.Duration {
	return c.ConfirmationTTL
}

var _ Config = (*EnvConfig)(nil)
