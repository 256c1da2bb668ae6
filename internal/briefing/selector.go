package briefing

import (
	"strings"

	"github.com/spf13/afero"

	"github.com/jyang234/aef/primer/internal/config"
	"github.com/jyang234/aef/primer/internal/discovery"
	"github.com/jyang234/aef/primer/pkg/types"
)

// Selector picks the prior session whose content is injected into a new one
type Selector struct {
	fs          afero.Fs
	finder      *discovery.Finder
	maxAgeDays  int
	placeholder string
}

// NewSelector creates a Selector from the sessions configuration
func NewSelector(fs afero.Fs, finder *discovery.Finder, cfg config.SessionsConfig) *Selector {
	placeholder := cfg.Placeholder
	if placeholder == "" {
		placeholder = config.DefaultPlaceholder
	}
	maxAge := cfg.MaxAgeDays
	if maxAge <= 0 {
		maxAge = 7
	}
	return &Selector{
		fs:          fs,
		finder:      finder,
		maxAgeDays:  maxAge,
		placeholder: placeholder,
	}
}

// Recent returns the session files inside the age window, newest first
func (s *Selector) Recent(sessionsDir string) []types.SessionFile {
	return s.finder.Find(sessionsDir, discovery.SessionFiles, discovery.Options{MaxAgeDays: s.maxAgeDays})
}

// SelectForInjection returns the content of the most recent session file if
// it holds real context. Only that one file is ever read.
func (s *Selector) SelectForInjection(sessionsDir string) (string, bool) {
	recent := s.Recent(sessionsDir)
	if len(recent) == 0 {
		return "", false
	}

	content, err := afero.ReadFile(s.fs, recent[0].Path)
	if err != nil {
		return "", false
	}

	if !s.Eligible(string(content)) {
		return "", false
	}
	return string(content), true
}

// Eligible reports whether content is worth injecting: non-blank and no
// longer the untouched template.
func (s *Selector) Eligible(content string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	return !strings.Contains(content, s.placeholder)
}
