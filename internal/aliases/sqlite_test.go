package aliases

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jyang234/aef/primer/internal/config"
	"github.com/jyang234/aef/primer/pkg/types"
)

func TestSQLiteReadOnlyMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session-aliases.db")

	reg, err := OpenReadOnly(afero.NewOsFs(), config.AliasesConfig{Backend: "sqlite", Path: path})
	require.NoError(t, err)
	defer reg.Close()

	list, err := reg.List(ListOptions{Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = reg.Resolve("work")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "listing must not create the database")
	_, err = os.Stat(filepath.Dir(path))
	assert.True(t, os.IsNotExist(err), "listing must not create the directory")
}

func TestSQLiteReadOnlyMissingFileRejectsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session-aliases.db")

	s, err := OpenSQLiteStoreReadOnly(path)
	require.NoError(t, err)

	err = s.Put(types.Alias{Name: "work", SessionPath: "/s/a", CreatedAt: base, UpdatedAt: base})
	assert.ErrorIs(t, err, ErrReadOnly)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSQLiteReadOnlyListsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session-aliases.db")

	rw, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, rw.Put(types.Alias{Name: "work", SessionPath: "/s/a", CreatedAt: base, UpdatedAt: base}))
	require.NoError(t, rw.Close())

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	reg, err := OpenReadOnly(afero.NewOsFs(), config.AliasesConfig{Backend: "sqlite", Path: path})
	require.NoError(t, err)

	list, err := reg.List(ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "work", list[0].Name)

	_, err = reg.Set("other", "/s/b", "")
	assert.Error(t, err)
	require.NoError(t, reg.Close())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
