// Package testutil provides reusable test utilities for primer integration tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestEnv provides access to isolated test directories
type TestEnv struct {
	Home        string // Mocked HOME directory
	ProjectDir  string // Test project directory
	ClaudeDir   string // ~/.claude equivalent
	SessionsDir string // ~/.claude/sessions
	LearnedDir  string // ~/.claude/skills/learned
	PluginRoot  string // CLAUDE_PLUGIN_ROOT, not a git checkout
	t           *testing.T
}

// SetupTestEnv creates an isolated test environment with mocked HOME.
// Uses t.TempDir() for automatic cleanup and t.Setenv() for automatic env restoration.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpHome := t.TempDir()
	tmpProject := t.TempDir()
	pluginRoot := t.TempDir()

	claudeDir := filepath.Join(tmpHome, ".claude")
	if err := os.MkdirAll(claudeDir, 0755); err != nil {
		t.Fatalf("Failed to create .claude: %v", err)
	}

	// Set HOME to temp directory (auto-restored after test)
	t.Setenv("HOME", tmpHome)
	t.Setenv("CLAUDE_PLUGIN_ROOT", pluginRoot)
	t.Setenv("CLAUDE_PACKAGE_MANAGER", "")
	t.Setenv("CLAUDE_SESSION_ID", "")

	return &TestEnv{
		Home:        tmpHome,
		ProjectDir:  tmpProject,
		ClaudeDir:   claudeDir,
		SessionsDir: filepath.Join(claudeDir, "sessions"),
		LearnedDir:  filepath.Join(claudeDir, "skills", "learned"),
		PluginRoot:  pluginRoot,
		t:           t,
	}
}

// CreateFile creates a file with the given content in the test environment.
// Relative paths are taken from the project directory.
func (e *TestEnv) CreateFile(path, content string) string {
	e.t.Helper()

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(e.ProjectDir, path)
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		e.t.Fatalf("Failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		e.t.Fatalf("Failed to write file %s: %v", fullPath, err)
	}
	return fullPath
}

// CreateProjectFile creates a file relative to the project directory.
func (e *TestEnv) CreateProjectFile(relPath, content string) string {
	e.t.Helper()
	return e.CreateFile(filepath.Join(e.ProjectDir, relPath), content)
}

// CreateSession writes a session file aged by age.
func (e *TestEnv) CreateSession(name, content string, age time.Duration) string {
	e.t.Helper()

	path := e.CreateFile(filepath.Join(e.SessionsDir, name), content)
	mod := time.Now().Add(-age)
	if err := os.Chtimes(path, mod, mod); err != nil {
		e.t.Fatalf("Failed to set mtime on %s: %v", path, err)
	}
	return path
}

// CreateSkill writes a learned skill file.
func (e *TestEnv) CreateSkill(name, content string) string {
	e.t.Helper()
	return e.CreateFile(filepath.Join(e.LearnedDir, name), content)
}

// ReadFile reads a file from the test environment.
func (e *TestEnv) ReadFile(path string) string {
	e.t.Helper()

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(e.ProjectDir, path)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		e.t.Fatalf("Failed to read file %s: %v", fullPath, err)
	}
	return string(data)
}

// FileExists checks if a file exists in the test environment.
func (e *TestEnv) FileExists(path string) bool {
	e.t.Helper()

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(e.ProjectDir, path)
	}

	_, err := os.Stat(fullPath)
	return err == nil
}

// SessionFileName returns a current-format session file name for day.
func SessionFileName(day time.Time, shortID string) string {
	return day.Format("2006-01-02") + "-" + shortID + "-session.tmp"
}
