package pkgmgr

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// SetPreference writes {"packageManager": name} to path
func SetPreference(fs afero.Fs, path, name string) error {
	if !Known(name) {
		return fmt.Errorf("%w: %q", ErrUnknownManager, name)
	}

	data, err := json.MarshalIndent(preference{PackageManager: name}, "", "  ")
	if err != nil {
		return err
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create preference directory: %w", err)
	}
	if err := afero.WriteFile(fs, path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write preference: %w", err)
	}
	return nil
}

// ProjectPreferencePath returns <projectDir>/.claude/package-manager.json
func ProjectPreferencePath(projectDir string) string {
	return filepath.Join(projectDir, ".claude", PreferenceFile)
}
