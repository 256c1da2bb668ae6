package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T, vars map[string]string) Env {
	t.Helper()
	home := t.TempDir()
	cwd := t.TempDir()
	return Env{
		Home:   home,
		Cwd:    cwd,
		Getenv: func(k string) string { return vars[k] },
		Executable: func() (string, error) {
			return filepath.Join(home, "plugins", "primer", "bin", "primer"), nil
		},
	}
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".primer"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".primer", "config.yaml"), []byte(content), 0644))
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	assert.Equal(t, "1", cfg.Version)
	assert.Equal(t, 7, cfg.Sessions.MaxAgeDays)
	assert.Equal(t, DefaultPlaceholder, cfg.Sessions.Placeholder)
	assert.Equal(t, "json", cfg.Aliases.Backend)
	assert.Equal(t, 5, cfg.Aliases.ListLimit)
	assert.Equal(t, "npm", cfg.PackageManager.Default)
	assert.Equal(t, []string{"fallback", "default"}, cfg.PackageManager.PromptSources)
	assert.Equal(t, 5*time.Second, cfg.Update.Timeout)
	assert.True(t, cfg.Update.Enabled)
}

func TestLoadFromDefaults(t *testing.T) {
	env := testEnv(t, nil)

	cfg, err := LoadFrom(env)
	require.NoError(t, err)

	claude := filepath.Join(env.Home, ".claude")
	assert.Equal(t, claude, cfg.ClaudeDir)
	assert.Equal(t, filepath.Join(claude, "sessions"), cfg.Sessions.Dir)
	assert.Equal(t, filepath.Join(claude, "skills", "learned"), cfg.Skills.LearnedDir)
	assert.Equal(t, filepath.Join(claude, "session-aliases.json"), cfg.Aliases.Path)
	assert.Equal(t, filepath.Join(env.Home, "plugins", "primer"), cfg.Update.PluginRoot)
	assert.Empty(t, cfg.PackageManager.Preferred)
}

func TestLoadFromEnvironment(t *testing.T) {
	env := testEnv(t, map[string]string{
		EnvPluginRoot:     "/opt/plugin",
		EnvPackageManager: " pnpm ",
	})

	cfg, err := LoadFrom(env)
	require.NoError(t, err)

	assert.Equal(t, "/opt/plugin", cfg.Update.PluginRoot)
	assert.Equal(t, "pnpm", cfg.PackageManager.Preferred)
}

func TestLoadFromProjectOverridesGlobal(t *testing.T) {
	env := testEnv(t, nil)

	writeConfig(t, env.Home, `version: "1"
sessions:
  max_age_days: 3
aliases:
  backend: sqlite
update:
  timeout: 2s
`)
	writeConfig(t, env.Cwd, `sessions:
  max_age_days: 14
package_manager:
  default: yarn
`)

	cfg, err := LoadFrom(env)
	require.NoError(t, err)

	assert.Equal(t, 14, cfg.Sessions.MaxAgeDays)
	assert.Equal(t, "yarn", cfg.PackageManager.Default)
	assert.Equal(t, 2*time.Second, cfg.Update.Timeout)
	assert.Equal(t, "sqlite", cfg.Aliases.Backend)
	assert.Equal(t, filepath.Join(env.Home, ".claude", "session-aliases.db"), cfg.Aliases.Path)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultPlaceholder, cfg.Sessions.Placeholder)
}

func TestLoadFromInvalidFile(t *testing.T) {
	env := testEnv(t, nil)
	writeConfig(t, env.Cwd, "sessions: [not, a, map")

	cfg, err := LoadFrom(env)
	assert.Error(t, err)

	// paths still resolve so callers can carry on with defaults
	require.NotNil(t, cfg)
	assert.Equal(t, filepath.Join(env.Home, ".claude", "sessions"), cfg.Sessions.Dir)
}

func TestLoadFromBrokenGlobalStillReadsProject(t *testing.T) {
	env := testEnv(t, nil)
	writeConfig(t, env.Home, "sessions: [not, a, map")
	writeConfig(t, env.Cwd, "sessions:\n  max_age_days: 3\n")

	cfg, err := LoadFrom(env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), filepath.Join(env.Home, ".primer", "config.yaml"))

	assert.Equal(t, 3, cfg.Sessions.MaxAgeDays)
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/home/u", ExpandHome("~", "/home/u"))
	assert.Equal(t, "/home/u/.claude", ExpandHome("~/.claude", "/home/u"))
	assert.Equal(t, "/abs", ExpandHome("/abs", "/home/u"))
	assert.Equal(t, "~other/x", ExpandHome("~other/x", "/home/u"))
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, WriteDefault(afero.NewOsFs(), path))

	cfg := DefaultConfig()
	require.NoError(t, loadFile(path, cfg))

	assert.Equal(t, DefaultConfig().Sessions, cfg.Sessions)
	assert.Equal(t, 5*time.Second, cfg.Update.Timeout)
	assert.Equal(t, []string{"pnpm", "bun", "yarn", "npm"}, cfg.PackageManager.DetectionOrder)
}
