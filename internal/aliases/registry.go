package aliases

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/jyang234/aef/primer/internal/recency"
	"github.com/jyang234/aef/primer/pkg/types"
)

var (
	// ErrNotFound is returned when an alias does not exist
	ErrNotFound = errors.New("alias not found")
	// ErrExists is returned when renaming onto an existing alias
	ErrExists = errors.New("alias already exists")
	// ErrInvalidName is returned for names outside [A-Za-z0-9_-]
	ErrInvalidName = errors.New("invalid alias name")
	// ErrReserved is returned for names that clash with subcommands
	ErrReserved = errors.New("reserved alias name")
	// ErrReadOnly is returned when writing through a listing-only store
	ErrReadOnly = errors.New("alias store opened read-only")
)

const maxNameLength = 128

var (
	nameRe        = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	reservedNames = []string{"list", "help", "remove", "delete", "create", "set"}
)

// Store persists aliases
type Store interface {
	All() ([]types.Alias, error)
	Get(name string) (types.Alias, error)
	Put(alias types.Alias) error
	Delete(name string) error
	Close() error
}

// ListOptions bound a listing
type ListOptions struct {
	// Limit caps the result length; zero or negative means no cap
	Limit int
	// Search keeps aliases whose name or title contains it, ignoring case
	Search string
}

// Registry is the alias API used by the hook and the CLI
type Registry struct {
	store Store
	now   func() time.Time
}

// NewRegistry creates a Registry over store
func NewRegistry(store Store) *Registry {
	return &Registry{store: store, now: time.Now}
}

// WithClock returns a copy of the Registry that stamps writes with now
func (r *Registry) WithClock(now func() time.Time) *Registry {
	return &Registry{store: r.store, now: now}
}

// List returns at most opts.Limit aliases, most recently created first
func (r *Registry) List(opts ListOptions) ([]types.Alias, error) {
	all, err := r.store.All()
	if err != nil {
		return nil, fmt.Errorf("failed to load aliases: %w", err)
	}

	result := make([]types.Alias, 0, len(all))
	if opts.Search == "" {
		result = append(result, all...)
	} else {
		fold := cases.Fold()
		query := fold.String(opts.Search)
		for _, a := range all {
			if strings.Contains(fold.String(a.Name), query) || strings.Contains(fold.String(a.Title), query) {
				result = append(result, a)
			}
		}
	}

	recency.Sort(result)

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result, nil
}

// Set creates or overwrites an alias. Overwriting keeps the original
// creation time.
func (r *Registry) Set(name, sessionPath, title string) (types.Alias, error) {
	if err := ValidateName(name); err != nil {
		return types.Alias{}, err
	}
	if strings.TrimSpace(sessionPath) == "" {
		return types.Alias{}, fmt.Errorf("session path is required")
	}

	now := r.now().UTC()
	alias := types.Alias{
		Name:        name,
		SessionPath: sessionPath,
		Title:       norm.NFC.String(strings.TrimSpace(title)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	existing, err := r.store.Get(name)
	switch {
	case err == nil:
		alias.CreatedAt = existing.CreatedAt
	case !errors.Is(err, ErrNotFound):
		return types.Alias{}, err
	}

	if err := r.store.Put(alias); err != nil {
		return types.Alias{}, fmt.Errorf("failed to save alias: %w", err)
	}
	return alias, nil
}

// Resolve returns the alias called name
func (r *Registry) Resolve(name string) (types.Alias, error) {
	if err := ValidateName(name); err != nil {
		return types.Alias{}, err
	}
	return r.store.Get(name)
}

// Delete removes an alias
func (r *Registry) Delete(name string) error {
	return r.store.Delete(name)
}

// Rename moves an alias to a new name, keeping its creation time
func (r *Registry) Rename(oldName, newName string) (types.Alias, error) {
	if err := ValidateName(newName); err != nil {
		return types.Alias{}, err
	}

	alias, err := r.store.Get(oldName)
	if err != nil {
		return types.Alias{}, err
	}

	if _, err := r.store.Get(newName); err == nil {
		return types.Alias{}, fmt.Errorf("%w: %s", ErrExists, newName)
	} else if !errors.Is(err, ErrNotFound) {
		return types.Alias{}, err
	}

	alias.Name = newName
	alias.UpdatedAt = r.now().UTC()
	if err := r.store.Put(alias); err != nil {
		return types.Alias{}, fmt.Errorf("failed to save alias: %w", err)
	}
	if err := r.store.Delete(oldName); err != nil {
		return types.Alias{}, fmt.Errorf("failed to remove old alias: %w", err)
	}
	return alias, nil
}

// Cleanup deletes aliases whose session file no longer exists and returns
// their names
func (r *Registry) Cleanup(exists func(path string) bool) ([]string, error) {
	all, err := r.store.All()
	if err != nil {
		return nil, fmt.Errorf("failed to load aliases: %w", err)
	}

	var removed []string
	for _, a := range all {
		if exists(a.SessionPath) {
			continue
		}
		if err := r.store.Delete(a.Name); err != nil {
			return removed, fmt.Errorf("failed to remove alias %s: %w", a.Name, err)
		}
		removed = append(removed, a.Name)
	}
	slices.Sort(removed)
	return removed, nil
}

// ForSession returns the names of aliases pointing at sessionPath
func (r *Registry) ForSession(sessionPath string) ([]string, error) {
	all, err := r.store.All()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, a := range all {
		if a.SessionPath == sessionPath {
			names = append(names, a.Name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Close releases the underlying store
func (r *Registry) Close() error {
	return r.store.Close()
}

// ValidateName checks an alias name
func ValidateName(name string) error {
	if name == "" || len(name) > maxNameLength || !nameRe.MatchString(name) {
		return fmt.Errorf("%w: %q (use letters, digits, - and _)", ErrInvalidName, name)
	}
	if slices.Contains(reservedNames, strings.ToLower(name)) {
		return fmt.Errorf("%w: %q", ErrReserved, name)
	}
	return nil
}
