// Package app assembles the authflow web application from its parts.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/authflow/pkg/cookie"
	"github.com/dmitrymomot/authflow/pkg/db"
	"github.com/dmitrymomot/authflow/pkg/logger"
	"github.com/dmitrymomot/authflow/pkg/mailer"
	"github.com/dmitrymomot/authflow/pkg/mailer/resend"
	"github.com/dmitrymomot/authflow/pkg/redis"
)

var ErrInvalidConfig = errors.New("app: invalid config")

// Config is the configuration of the serve command.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	SessionCookie string        `env:"SESSION_COOKIE_NAME" envDefault:"__sid"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	SessionPrefix string        `env:"SESSION_REDIS_PREFIX" envDefault:"session"`

	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"10"`
	CheckCacheTTL time.Duration `env:"CHECK_CACHE_TTL" envDefault:"5s"`
	JobWorkers    int           `env:"JOB_MAX_WORKERS" envDefault:"10"`

	Log    logger.Config
	DB     db.Config
	Redis  redis.Config
	Cookie cookie.Config
	Mailer mailer.Config
	Resend resend.Config
}

func (c Config) validate() error {
	switch {
	case c.SessionTTL < time.Minute:
		return fmt.Errorf("%w: SESSION_TTL must be at least 1m", ErrInvalidConfig)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("%w: HTTP_REQUEST_TIMEOUT must be positive", ErrInvalidConfig)
	case c.Cookie.Secret != "" && len(c.Cookie.Secret) < 32:
		return fmt.Errorf("%w: COOKIE_SECRET must be at least 32 bytes", ErrInvalidConfig)
	}
	return nil
}

// MigrateConfig is the configuration of the migrate command.
type MigrateConfig struct {
	Log logger.Config
	DB  db.Config
}

func (MigrateConfig) validate() error { return nil }

// LoadConfig reads files into the environment, if they exist, and parses
// the environment into T. Variables already set win over the files.
func LoadConfig[T interface{ validate() error }](files ...string) (T, error) {
	var zero T
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zero, fmt.Errorf("%w: load env file: %v", ErrInvalidConfig, err)
	}

	cfg, err := env.ParseAs[T]()
	if err != nil {
		return zero, errors.Join(ErrInvalidConfig, err)
	}
	if err := cfg.validate(); err != nil {
		return zero, err
	}
	return cfg, nil
}
