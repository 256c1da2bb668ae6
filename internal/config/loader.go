package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Environment variables read at the edge and passed on as plain values.
const (
	EnvPluginRoot     = "CLAUDE_PLUGIN_ROOT"
	EnvPackageManager = "CLAUDE_PACKAGE_MANAGER"
	EnvSessionID      = "CLAUDE_SESSION_ID"
)

// Env is the process environment a load sees
type Env struct {
	Home       string
	Cwd        string
	Getenv     func(string) string
	Executable func() (string, error)
}

// OSEnv returns the real process environment
func OSEnv() Env {
	home, _ := os.UserHomeDir()
	cwd, _ := os.Getwd()
	return Env{
		Home:       home,
		Cwd:        cwd,
		Getenv:     os.Getenv,
		Executable: os.Executable,
	}
}

// Load loads and merges configuration from global and project sources
func Load() (*Config, error) {
	return LoadFrom(OSEnv())
}

// LoadFrom merges defaults, the global file, the project file and the
// environment, then resolves every path to an absolute one. A broken file
// is skipped and the first such error is returned alongside a usable config.
func LoadFrom(env Env) (*Config, error) {
	cfg := DefaultConfig()

	var files []string
	if env.Home != "" {
		files = append(files, filepath.Join(env.Home, ".primer", "config.yaml"))
	}
	if env.Cwd != "" {
		files = append(files, filepath.Join(env.Cwd, ".primer", "config.yaml"))
	}

	var loadErr error
	for _, path := range files {
		if err := loadFile(path, cfg); err != nil && !os.IsNotExist(err) && loadErr == nil {
			loadErr = fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if env.Getenv != nil {
		if root := env.Getenv(EnvPluginRoot); root != "" {
			cfg.Update.PluginRoot = root
		}
		cfg.PackageManager.Preferred = strings.TrimSpace(env.Getenv(EnvPackageManager))
	}

	cfg.resolvePaths(env)
	return cfg, loadErr
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

func (c *Config) resolvePaths(env Env) {
	c.ClaudeDir = ExpandHome(c.ClaudeDir, env.Home)

	if c.Sessions.Dir == "" {
		c.Sessions.Dir = filepath.Join(c.ClaudeDir, "sessions")
	}
	c.Sessions.Dir = ExpandHome(c.Sessions.Dir, env.Home)

	if c.Skills.LearnedDir == "" {
		c.Skills.LearnedDir = filepath.Join(c.ClaudeDir, "skills", "learned")
	}
	c.Skills.LearnedDir = ExpandHome(c.Skills.LearnedDir, env.Home)

	if c.Aliases.Path == "" {
		name := "session-aliases.json"
		if c.Aliases.Backend == "sqlite" {
			name = "session-aliases.db"
		}
		c.Aliases.Path = filepath.Join(c.ClaudeDir, name)
	}
	c.Aliases.Path = ExpandHome(c.Aliases.Path, env.Home)

	if c.Update.PluginRoot == "" && env.Executable != nil {
		// Binary lives in <root>/bin
		if exe, err := env.Executable(); err == nil {
			c.Update.PluginRoot = filepath.Dir(filepath.Dir(exe))
		}
	}
	c.Update.PluginRoot = ExpandHome(c.Update.PluginRoot, env.Home)

	if c.Log.File != "" {
		c.Log.File = ExpandHome(c.Log.File, env.Home)
	}
}

// ExpandHome replaces a leading ~ with home
func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".primer", "config.yaml")
}

// ProjectConfigPath returns the path to the project config file
func ProjectConfigPath() string {
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, ".primer", "config.yaml")
}

// PackageManagerPreferencePath returns the global package manager preference
// file inside the Claude directory
func (c *Config) PackageManagerPreferencePath() string {
	return filepath.Join(c.ClaudeDir, "package-manager.json")
}
