package algowalk

import (
	"github.com/juju/errors"

	"github.com/algowalk/algowalk/runtime"
	"github.com/algowalk/algowalk/store"
	"github.com/algowalk/algowalk/store/mem"
	"github.com/algowalk/algowalk/store/postgres"
	"github.com/algowalk/algowalk/types"
)

// NewEngine creates a new binding engine with the given options
func NewEngine(opts ...types.EngineOption) (types.Engine, error) {
	options := types.NewEngineOptions()
	for _, opt := range opts {
		opt(options)
	}

	var s store.Store
	var err error

	// PostgresConfig takes precedence over MemStore
	if options.PostgresConfig != nil {
		pgConfig := &postgres.Config{
			Host:     options.PostgresConfig.Host,
			Port:     options.PostgresConfig.Port,
			User:     options.PostgresConfig.User,
			Password: options.PostgresConfig.Password,
			Database: options.PostgresConfig.Database,
			SSLMode:  options.PostgresConfig.SSLMode,
		}

		s, err = postgres.NewPostgresStore(pgConfig)
		if err != nil {
			return nil, errors.Annotatef(err, "failed to create PostgreSQL store")
		}
	} else if options.MemStore {
		s = mem.NewMemStore()
	} else {
		// Default to mem store if not specified
		s = mem.NewMemStore()
	}

	return runtime.NewEngine(s, options), nil
}

// NewBFSProcess creates the reference breadth-first traversal process.
// Configure it with Init before binding.
func NewBFSProcess(id string) types.Process {
	return runtime.NewBFSProcess(id)
}

// NewBinder creates a standalone timeline binder for callers that do not
// need the engine's registry or snapshot persistence.
func NewBinder(opts ...types.BindOption) *runtime.Binder {
	return runtime.NewBinder(opts...)
}
