// Package discovery lists files in a single directory that match a name
// matcher, optionally bounded by age, most recent first.
//
// Discovery is read-only. A directory that is missing or cannot be read
// yields an empty result; callers cannot and should not tell the two apart.
package discovery

import (
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/jyang234/aef/primer/internal/recency"
	"github.com/jyang234/aef/primer/pkg/types"
)

// Options bound a Find call.
type Options struct {
	// MaxAgeDays excludes files modified more than this many days ago.
	// Zero disables the filter.
	MaxAgeDays int
}

// Finder discovers files through an afero filesystem.
type Finder struct {
	fs  afero.Fs
	now func() time.Time
}

// NewFinder creates a Finder. A nil fs means the OS filesystem.
func NewFinder(fs afero.Fs) *Finder {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Finder{fs: fs, now: time.Now}
}

// WithClock returns a copy of the Finder that uses now for age checks.
func (f *Finder) WithClock(now func() time.Time) *Finder {
	return &Finder{fs: f.fs, now: now}
}

// Find returns the regular files in dir whose names satisfy m, most recent
// first.
func (f *Finder) Find(dir string, m Matcher, opts Options) []types.SessionFile {
	entries, err := afero.ReadDir(f.fs, dir)
	if err != nil {
		return []types.SessionFile{}
	}

	var cutoff time.Time
	if opts.MaxAgeDays > 0 {
		cutoff = f.now().Add(-time.Duration(opts.MaxAgeDays) * 24 * time.Hour)
	}

	files := make([]types.SessionFile, 0, len(entries))
	for _, entry := range entries {
		if !entry.Mode().IsRegular() || !m.Match(entry.Name()) {
			continue
		}
		if !cutoff.IsZero() && entry.ModTime().Before(cutoff) {
			continue
		}
		files = append(files, types.SessionFile{
			Path:       filepath.Join(dir, entry.Name()),
			ModifiedAt: entry.ModTime(),
		})
	}

	recency.Sort(files)
	return files
}

// Skills lists learned skill files in dir.
func (f *Finder) Skills(dir string) []types.LearnedSkill {
	files := f.Find(dir, Suffix(".md"), Options{})
	skills := make([]types.LearnedSkill, len(files))
	for i, file := range files {
		skills[i] = types.LearnedSkill{Path: file.Path}
	}
	return skills
}
