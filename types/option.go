package types

import (
	"context"

	"github.com/mcuadros/go-defaults"
)

func NewEngineOptions() *EngineOptions {
	opts := &EngineOptions{Ctx: context.Background()}
	defaults.SetDefaults(opts)
	return opts
}

type EngineOptions struct {
	Ctx context.Context
	/**
	 * default: 8
	 * BindAll runs at most this many bindings concurrently.
	 */
	MaxBindConcurrency int `default:"8"`
	/**
	 * default: 10000
	 * run-away guard for Run: a process that has not reached a terminal
	 * state after this many steps fails with a step-cap reason.
	 */
	MaxRunSteps int `default:"10000"`
	/**
	 * default: false, only set it to true when doing testing or developing.
	 */
	MemStore bool `default:"false"`

	// PostgreSQL store configuration
	// If both MemStore and PostgresConfig are set, PostgresConfig takes precedence
	PostgresConfig *PostgresConfig
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string // disable, require, verify-ca, verify-full
}

type EngineOption func(*EngineOptions)

func WithContext(ctx context.Context) EngineOption {
	return func(opts *EngineOptions) {
		opts.Ctx = ctx
	}
}

func SetMaxBindConcurrency(concurrency int) EngineOption {
	return func(opts *EngineOptions) {
		opts.MaxBindConcurrency = concurrency
	}
}

func SetMaxRunSteps(maxSteps int) EngineOption {
	return func(opts *EngineOptions) {
		opts.MaxRunSteps = maxSteps
	}
}

func EnableMemStore() EngineOption {
	return func(opts *EngineOptions) {
		opts.MemStore = true
	}
}

// WithPostgresConfig configures the engine to use the PostgreSQL store
func WithPostgresConfig(config *PostgresConfig) EngineOption {
	return func(opts *EngineOptions) {
		opts.PostgresConfig = config
	}
}

func NewBindOptions() *BindOptions {
	opts := &BindOptions{}
	defaults.SetDefaults(opts)
	return opts
}

type BindOptions struct {
	/**
	 * default: 10000, see EngineOptions.MaxRunSteps.
	 */
	MaxSteps int `default:"10000"`
}

type BindOption func(*BindOptions)

func SetMaxSteps(maxSteps int) BindOption {
	return func(opts *BindOptions) {
		opts.MaxSteps = maxSteps
	}
}
