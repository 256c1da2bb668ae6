package pkgmgr

import (
	"encoding/json"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// PreferenceFile is the file name of a package manager preference
const PreferenceFile = "package-manager.json"

// Options configures a Resolver
type Options struct {
	// Preferred is the CLAUDE_PACKAGE_MANAGER value, if any
	Preferred string
	// GlobalConfigPath is ~/.claude/package-manager.json
	GlobalConfigPath string
	// DetectionOrder is the PATH probing order
	DetectionOrder []string
	// Default is used when nothing else answers
	Default string
	// LookPath finds an executable; exec.LookPath when nil
	LookPath func(file string) (string, error)
}

// Resolver decides the package manager for a project directory
type Resolver struct {
	fs   afero.Fs
	opts Options
}

// NewResolver creates a Resolver. A nil fs means the OS filesystem.
func NewResolver(fs afero.Fs, opts Options) *Resolver {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if len(opts.DetectionOrder) == 0 {
		opts.DetectionOrder = DefaultDetectionOrder
	}
	if !Known(opts.Default) {
		opts.Default = "npm"
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	return &Resolver{fs: fs, opts: opts}
}

// Resolve returns the first tier that names a known manager
func (r *Resolver) Resolve(projectDir string) Decision {
	if d, ok := r.explicit(projectDir); ok {
		return d
	}
	if d, ok := r.evidence(projectDir); ok {
		return d
	}
	if avail := r.Available(); len(avail) > 0 {
		return Decision{Name: avail[0], Source: SourceFallback, Origin: OriginPath}
	}
	return Decision{Name: r.opts.Default, Source: SourceDefault, Origin: OriginDefault}
}

func (r *Resolver) explicit(projectDir string) (Decision, bool) {
	if name := strings.TrimSpace(r.opts.Preferred); Known(name) {
		return Decision{Name: name, Source: SourceExplicit, Origin: OriginEnvironment}, true
	}
	if projectDir != "" {
		path := ProjectPreferencePath(projectDir)
		if name, ok := r.readPreference(path); ok {
			return Decision{Name: name, Source: SourceExplicit, Origin: OriginProjectConfig}, true
		}
	}
	if r.opts.GlobalConfigPath != "" {
		if name, ok := r.readPreference(r.opts.GlobalConfigPath); ok {
			return Decision{Name: name, Source: SourceExplicit, Origin: OriginGlobalConfig}, true
		}
	}
	return Decision{}, false
}

func (r *Resolver) evidence(projectDir string) (Decision, bool) {
	if projectDir == "" {
		return Decision{}, false
	}

	if name, ok := r.packageJSONField(projectDir); ok {
		return Decision{Name: name, Source: SourceEvidence, Origin: OriginPackageJSON}, true
	}

	var found []string
	for _, name := range DefaultDetectionOrder {
		for _, lock := range managers[name].Lockfiles {
			if exists(r.fs, filepath.Join(projectDir, lock)) {
				found = append(found, name)
				break
			}
		}
	}
	// lockfiles from more than one manager are ambiguous
	if len(found) != 1 {
		return Decision{}, false
	}
	return Decision{Name: found[0], Source: SourceEvidence, Origin: OriginLockfile}, true
}

// Available returns the managers found on PATH, in detection order
func (r *Resolver) Available() []string {
	var out []string
	for _, name := range r.opts.DetectionOrder {
		if !Known(name) {
			continue
		}
		if _, err := r.opts.LookPath(name); err == nil {
			out = append(out, name)
		}
	}
	return out
}

type preference struct {
	PackageManager string `json:"packageManager"`
}

func (r *Resolver) readPreference(path string) (string, bool) {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return "", false
	}
	var p preference
	if err := json.Unmarshal(data, &p); err != nil {
		return "", false
	}
	name := strings.TrimSpace(p.PackageManager)
	return name, Known(name)
}

// packageJSONField reads "packageManager": "pnpm@8.6.0" from package.json
func (r *Resolver) packageJSONField(projectDir string) (string, bool) {
	data, err := afero.ReadFile(r.fs, filepath.Join(projectDir, "package.json"))
	if err != nil {
		return "", false
	}
	var p preference
	if err := json.Unmarshal(data, &p); err != nil {
		return "", false
	}
	name, _, _ := strings.Cut(strings.TrimSpace(p.PackageManager), "@")
	return name, Known(name)
}

func exists(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && !info.IsDir()
}
