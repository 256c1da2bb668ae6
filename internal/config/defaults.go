package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// Blank session template marker. A session file still containing it was
// created but never filled in.
const DefaultPlaceholder = "[Session context goes here]"

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:   "1",
		ClaudeDir: "~/.claude",
		Sessions: SessionsConfig{
			MaxAgeDays:    7,
			Placeholder:   DefaultPlaceholder,
			SummaryPrefix: "Previous session summary:",
		},
		Aliases: AliasesConfig{
			Backend:   "json",
			ListLimit: 5,
		},
		PackageManager: PackageManagerConfig{
			Default:        "npm",
			DetectionOrder: []string{"pnpm", "bun", "yarn", "npm"},
			PromptSources:  []string{"fallback", "default"},
		},
		Update: UpdateConfig{
			Enabled: true,
			Timeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML is the commented global configuration written by init
const DefaultYAML = `# primer global configuration
version: "1"

# Claude Code state directory
claude_dir: ~/.claude

# Session continuity
sessions:
  # dir: ~/.claude/sessions
  max_age_days: 7
  placeholder: "[Session context goes here]"
  summary_prefix: "Previous session summary:"

# skills:
#   learned_dir: ~/.claude/skills/learned

# Session aliases
aliases:
  backend: json  # "json" (session-aliases.json) or "sqlite"
  # path: ~/.claude/session-aliases.json
  list_limit: 5

# Package manager resolution
package_manager:
  default: npm
  detection_order: [pnpm, bun, yarn, npm]
  # Sources that trigger the selection prompt
  prompt_sources: [fallback, default]

# Plugin self-update (git pull in CLAUDE_PLUGIN_ROOT)
update:
  enabled: true
  timeout: 5s

log:
  level: info
  # file: ~/.primer/debug.log
`

// WriteDefault writes the default global configuration to path on fs
func WriteDefault(fs afero.Fs, path string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return afero.WriteFile(fs, path, []byte(DefaultYAML), 0644)
}
