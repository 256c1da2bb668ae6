package aliases

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/jyang234/aef/primer/pkg/types"
)

const jsonVersion = "1.0"

// aliasFile is the session-aliases.json layout
type aliasFile struct {
	Version  string                `json:"version"`
	Aliases  map[string]aliasEntry `json:"aliases"`
	Metadata aliasMetadata         `json:"metadata"`
}

type aliasEntry struct {
	SessionPath string    `json:"sessionPath"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Title       *string   `json:"title"`
}

type aliasMetadata struct {
	TotalCount  int       `json:"totalCount"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// JSONStore keeps aliases in a single JSON document
type JSONStore struct {
	fs   afero.Fs
	path string
	now  func() time.Time
}

// NewJSONStore creates a store backed by path. Nothing is read or written
// until the first call.
func NewJSONStore(fs afero.Fs, path string) *JSONStore {
	return &JSONStore{fs: fs, path: path, now: time.Now}
}

func (s *JSONStore) load() (*aliasFile, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &aliasFile{Version: jsonVersion, Aliases: map[string]aliasEntry{}}, nil
		}
		return nil, err
	}

	var f aliasFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid alias file %s: %w", s.path, err)
	}
	if f.Aliases == nil {
		f.Aliases = map[string]aliasEntry{}
	}
	return &f, nil
}

func (s *JSONStore) save(f *aliasFile) error {
	f.Version = jsonVersion
	f.Metadata = aliasMetadata{
		TotalCount:  len(f.Aliases),
		LastUpdated: s.now().UTC(),
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create alias directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write alias file: %w", err)
	}

	if prev, err := afero.ReadFile(s.fs, s.path); err == nil {
		if err := afero.WriteFile(s.fs, s.path+".bak", prev, 0644); err != nil {
			return fmt.Errorf("failed to back up alias file: %w", err)
		}
	}

	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("failed to replace alias file: %w", err)
	}
	return nil
}

// All returns every alias in no particular order
func (s *JSONStore) All() ([]types.Alias, error) {
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]types.Alias, 0, len(f.Aliases))
	for name, e := range f.Aliases {
		out = append(out, e.toAlias(name))
	}
	return out, nil
}

// Get returns one alias
func (s *JSONStore) Get(name string) (types.Alias, error) {
	f, err := s.load()
	if err != nil {
		return types.Alias{}, err
	}
	e, ok := f.Aliases[name]
	if !ok {
		return types.Alias{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return e.toAlias(name), nil
}

// Put inserts or replaces an alias
func (s *JSONStore) Put(a types.Alias) error {
	f, err := s.load()
	if err != nil {
		return err
	}
	e := aliasEntry{
		SessionPath: a.SessionPath,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.Title != "" {
		title := a.Title
		e.Title = &title
	}
	f.Aliases[a.Name] = e
	return s.save(f)
}

// Delete removes an alias
func (s *JSONStore) Delete(name string) error {
	f, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := f.Aliases[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(f.Aliases, name)
	return s.save(f)
}

// Close is a no-op
func (s *JSONStore) Close() error { return nil }

func (e aliasEntry) toAlias(name string) types.Alias {
	a := types.Alias{
		Name:        name,
		SessionPath: e.SessionPath,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.Title != nil {
		a.Title = *e.Title
	}
	return a
}
