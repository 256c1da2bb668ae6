package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noBinaries(string) (string, error) { return "", errors.New("not found") }

func countFailures(results []checkResult) int {
	n := 0
	for _, r := range results {
		if !r.ok {
			n++
		}
	}
	return n
}

func TestDiagnoseFreshMachine(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := testConfig("/home/u")

	results := diagnose(fs, cfg, nil, "/work/app", noBinaries)

	// claude dir, sessions dir, learned dir, two commands, git, plugin checkout
	assert.Equal(t, 7, countFailures(results))
}

func TestDiagnoseAfterInit(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := testConfig("/home/u")
	_, err := initialize(fs, cfg, "/home/u/.primer/config.yaml", filepath.Join(cfg.ClaudeDir, "commands"), false)
	require.NoError(t, err)
	require.NoError(t, fs.MkdirAll(filepath.Join(cfg.Update.PluginRoot, ".git"), 0755))

	results := diagnose(fs, cfg, nil, "/work/app", func(string) (string, error) { return "/usr/bin/git", nil })
	assert.Zero(t, countFailures(results))

	var buf bytes.Buffer
	printChecks(&buf, results)
	assert.Contains(t, buf.String(), "Results: 10 passed, 0 failed")
}

func TestDiagnoseUpdateDisabled(t *testing.T) {
	cfg := testConfig("/home/u")
	cfg.Update.Enabled = false

	results := diagnose(afero.NewMemMapFs(), cfg, errors.New("bad yaml"), "/work/app", noBinaries)

	var names []string
	for _, r := range results {
		names = append(names, r.name)
	}
	assert.Contains(t, names, "disabled in config")
	assert.NotContains(t, names, "git binary")
	assert.Equal(t, "bad yaml", results[0].detail)
}
