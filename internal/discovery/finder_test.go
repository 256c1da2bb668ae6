package discovery

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

func writeAt(t *testing.T, fs afero.Fs, path string, mod time.Time) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte("x"), 0644))
	require.NoError(t, fs.Chtimes(path, mod, mod))
}

func newTestFinder(fs afero.Fs) *Finder {
	return NewFinder(fs).WithClock(func() time.Time { return testNow })
}

func TestFindMissingDirectory(t *testing.T) {
	f := newTestFinder(afero.NewMemMapFs())

	got := f.Find("/does/not/exist", SessionFiles, Options{MaxAgeDays: 7})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindEmptyDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/sessions", 0755))

	got := newTestFinder(fs).Find("/sessions", SessionFiles, Options{})
	assert.Empty(t, got)
}

func TestFindOrdersByModificationTime(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/sessions"
	writeAt(t, fs, filepath.Join(dir, "2026-03-10-session.tmp"), testNow.Add(-30*time.Hour))
	writeAt(t, fs, filepath.Join(dir, "2026-03-14-ab12cd34-session.tmp"), testNow.Add(-time.Hour))
	writeAt(t, fs, filepath.Join(dir, "2026-03-12-session.tmp"), testNow.Add(-5*time.Hour))

	got := newTestFinder(fs).Find(dir, SessionFiles, Options{})

	require.Len(t, got, 3)
	assert.Equal(t, filepath.Join(dir, "2026-03-14-ab12cd34-session.tmp"), got[0].Path)
	assert.Equal(t, filepath.Join(dir, "2026-03-12-session.tmp"), got[1].Path)
	assert.Equal(t, filepath.Join(dir, "2026-03-10-session.tmp"), got[2].Path)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].ModifiedAt.After(got[i].ModifiedAt))
	}
}

func TestFindTieBreaksOnPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeAt(t, fs, "/s/2026-03-14-aaaa-session.tmp", testNow)
	writeAt(t, fs, "/s/2026-03-14-bbbb-session.tmp", testNow)

	got := newTestFinder(fs).Find("/s", SessionFiles, Options{})

	require.Len(t, got, 2)
	assert.Equal(t, "/s/2026-03-14-bbbb-session.tmp", got[0].Path)
}

func TestFindMaxAge(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeAt(t, fs, "/s/2026-03-01-session.tmp", testNow.Add(-8*24*time.Hour))
	writeAt(t, fs, "/s/2026-03-08-session.tmp", testNow.Add(-7*24*time.Hour))
	writeAt(t, fs, "/s/2026-03-14-session.tmp", testNow.Add(-24*time.Hour))

	got := newTestFinder(fs).Find("/s", SessionFiles, Options{MaxAgeDays: 7})

	require.Len(t, got, 2)
	assert.Equal(t, "/s/2026-03-14-session.tmp", got[0].Path)
	// exactly at the limit is kept
	assert.Equal(t, "/s/2026-03-08-session.tmp", got[1].Path)
}

func TestFindSkipsDirectoriesAndForeignFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/s/2026-03-14-session.tmp", 0755))
	writeAt(t, fs, "/s/notes.txt", testNow)
	writeAt(t, fs, "/s/2026-03-13-session.tmp", testNow)

	got := newTestFinder(fs).Find("/s", SessionFiles, Options{})

	require.Len(t, got, 1)
	assert.Equal(t, "/s/2026-03-13-session.tmp", got[0].Path)
}

func TestFindDoesNotMutate(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeAt(t, fs, "/s/2026-03-14-session.tmp", testNow.Add(-time.Hour))

	before, err := fs.Stat("/s/2026-03-14-session.tmp")
	require.NoError(t, err)

	newTestFinder(fs).Find("/s", SessionFiles, Options{MaxAgeDays: 7})

	after, err := fs.Stat("/s/2026-03-14-session.tmp")
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
	assert.Equal(t, before.Size(), after.Size())
}

func TestSkills(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeAt(t, fs, "/learned/a.md", testNow.Add(-400*24*time.Hour))
	writeAt(t, fs, "/learned/b.md", testNow)
	writeAt(t, fs, "/learned/readme.txt", testNow)

	skills := newTestFinder(fs).Skills("/learned")

	require.Len(t, skills, 2)
	assert.Equal(t, "/learned/b.md", skills[0].Path)
}
