// Package config loads the runtime settings of the inputparser command from
// the environment. A .env file in the working directory is read once before
// the first load.
package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Prefix is prepended to every variable name read by Load.
const Prefix = "INPUTPARSER_"

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into Config
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrInvalidConfig is returned when a parsed Config fails struct validation
	ErrInvalidConfig = errors.New("invalid config")
)

var (
	dotenvLoaded sync.Once
	vld          = validator.New(validator.WithRequiredStructEnabled())
)

// Config holds the settings shared by every subcommand. Flags override them.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console" validate:"oneof=json console"`
	Strict    bool   `env:"STRICT"`
	Schema    string `env:"SCHEMA" envDefault:"inputparser.yaml" validate:"required"`
}

// LoadDotenv copies the variables of ./.env into the process environment
// once. Variables already set are left alone and a missing file is ignored.
func LoadDotenv() {
	dotenvLoaded.Do(func() {
		_ = godotenv.Load()
	})
}

// LoadFromEnviron reads Config from environ, a list of KEY=value pairs in the
// form returned by os.Environ.
func LoadFromEnviron(environ []string) (Config, error) {
	var cfg Config
	err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      Prefix,
		Environment: env.ToMap(environ),
	})
	if err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := vld.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}
