package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// FilledSession is a session file somebody wrote a summary into.
const FilledSession = `# Session: 2026-03-15
**Date:** 2026-03-15
**Started:** 09:12
**Last Updated:** 17:40

---

## Current State

Parser rewrite merged. Benchmarks show a 2x speedup on large inputs.

### Notes for Next Session

- Port the error recovery tests
- Check memory use with 10MB inputs
`

// BlankSession is an untouched session template.
const BlankSession = `# Session: 2026-03-15
**Date:** 2026-03-15
**Started:** 09:12
**Last Updated:** 09:12

---

## Current State

[Session context goes here]
`

// AliasFixture is one entry for WriteAliases.
type AliasFixture struct {
	Name        string
	SessionPath string
	CreatedAt   time.Time
}

// WriteAliases writes a session-aliases.json holding aliases.
func WriteAliases(t *testing.T, claudeDir string, aliases []AliasFixture) string {
	t.Helper()

	entries := map[string]any{}
	for _, a := range aliases {
		entries[a.Name] = map[string]any{
			"sessionPath": a.SessionPath,
			"createdAt":   a.CreatedAt.UTC().Format(time.RFC3339Nano),
			"updatedAt":   a.CreatedAt.UTC().Format(time.RFC3339Nano),
			"title":       nil,
		}
	}

	doc := map[string]any{
		"version": "1.0",
		"aliases": entries,
		"metadata": map[string]any{
			"totalCount":  len(aliases),
			"lastUpdated": time.Now().UTC().Format(time.RFC3339Nano),
		},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal aliases: %v", err)
	}

	path := filepath.Join(claudeDir, "session-aliases.json")
	if err := os.MkdirAll(claudeDir, 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", claudeDir, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write aliases: %v", err)
	}
	return path
}

// SampleAliases returns n aliases created one minute apart, oldest first.
func SampleAliases(n int, sessionPath string, start time.Time) []AliasFixture {
	out := make([]AliasFixture, n)
	for i := range out {
		out[i] = AliasFixture{
			Name:        fmt.Sprintf("alias-%d", i+1),
			SessionPath: sessionPath,
			CreatedAt:   start.Add(time.Duration(i) * time.Minute),
		}
	}
	return out
}
