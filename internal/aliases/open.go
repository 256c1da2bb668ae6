package aliases

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/jyang234/aef/primer/internal/config"
)

// Open returns a read-write registry for the configured backend
func Open(fs afero.Fs, cfg config.AliasesConfig) (*Registry, error) {
	switch cfg.Backend {
	case "", "json":
		return NewRegistry(NewJSONStore(fs, cfg.Path)), nil
	case "sqlite":
		store, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return NewRegistry(store), nil
	default:
		return nil, fmt.Errorf("unknown alias backend %q: must be 'json' or 'sqlite'", cfg.Backend)
	}
}

// OpenReadOnly returns a registry for listing. It never creates or migrates
// the underlying store.
func OpenReadOnly(fs afero.Fs, cfg config.AliasesConfig) (*Registry, error) {
	switch cfg.Backend {
	case "", "json":
		return NewRegistry(NewJSONStore(fs, cfg.Path)), nil
	case "sqlite":
		store, err := OpenSQLiteStoreReadOnly(cfg.Path)
		if err != nil {
			return nil, err
		}
		return NewRegistry(store), nil
	default:
		return nil, fmt.Errorf("unknown alias backend %q: must be 'json' or 'sqlite'", cfg.Backend)
	}
}
