package config

import "time"

// Config represents the full primer configuration
type Config struct {
	Version string `yaml:"version" mapstructure:"version"`

	// Root of the Claude Code state directory (~/.claude)
	ClaudeDir string `yaml:"claude_dir" mapstructure:"claude_dir"`

	Sessions       SessionsConfig       `yaml:"sessions" mapstructure:"sessions"`
	Skills         SkillsConfig         `yaml:"skills" mapstructure:"skills"`
	Aliases        AliasesConfig        `yaml:"aliases" mapstructure:"aliases"`
	PackageManager PackageManagerConfig `yaml:"package_manager" mapstructure:"package_manager"`
	Update         UpdateConfig         `yaml:"update" mapstructure:"update"`
	Log            LogConfig            `yaml:"log" mapstructure:"log"`
}

// SessionsConfig configures session discovery and injection
type SessionsConfig struct {
	Dir           string `yaml:"dir" mapstructure:"dir"`
	MaxAgeDays    int    `yaml:"max_age_days" mapstructure:"max_age_days"`
	Placeholder   string `yaml:"placeholder" mapstructure:"placeholder"`
	SummaryPrefix string `yaml:"summary_prefix" mapstructure:"summary_prefix"`
}

// SkillsConfig locates learned skills
type SkillsConfig struct {
	LearnedDir string `yaml:"learned_dir" mapstructure:"learned_dir"`
}

// AliasesConfig selects the alias store
type AliasesConfig struct {
	Backend   string `yaml:"backend" mapstructure:"backend"` // json or sqlite
	Path      string `yaml:"path" mapstructure:"path"`
	ListLimit int    `yaml:"list_limit" mapstructure:"list_limit"`
}

// PackageManagerConfig configures package manager resolution
type PackageManagerConfig struct {
	Default        string   `yaml:"default" mapstructure:"default"`
	DetectionOrder []string `yaml:"detection_order" mapstructure:"detection_order"`
	PromptSources  []string `yaml:"prompt_sources" mapstructure:"prompt_sources"`

	// Set from CLAUDE_PACKAGE_MANAGER, never read from files
	Preferred string `yaml:"-" mapstructure:"-"`
}

// UpdateConfig configures the plugin self-update
type UpdateConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	PluginRoot string        `yaml:"plugin_root" mapstructure:"plugin_root"`
}

// LogConfig configures the debug log
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file" mapstructure:"file"`
}
