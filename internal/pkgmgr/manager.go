// Package pkgmgr decides which JavaScript package manager a project uses.
//
// Resolution walks four tiers and stops at the first one that answers:
// explicit configuration, evidence in the project, managers found on PATH,
// and finally the configured default. Every Decision records the tier it
// came from so callers can tell a deliberate choice from a guess.
package pkgmgr

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownManager is returned for names outside the manager table
var ErrUnknownManager = errors.New("unknown package manager")

// Manager describes one package manager and its command shapes
type Manager struct {
	Name      string
	Lockfiles []string
	Install   string
	Run       string
	Exec      string
	Test      string
	Build     string
	Dev       string
}

// managers is keyed by name; DefaultDetectionOrder fixes iteration order
var managers = map[string]Manager{
	"npm": {
		Name:      "npm",
		Lockfiles: []string{"package-lock.json"},
		Install:   "npm install",
		Run:       "npm run",
		Exec:      "npx",
		Test:      "npm test",
		Build:     "npm run build",
		Dev:       "npm run dev",
	},
	"pnpm": {
		Name:      "pnpm",
		Lockfiles: []string{"pnpm-lock.yaml"},
		Install:   "pnpm install",
		Run:       "pnpm",
		Exec:      "pnpm dlx",
		Test:      "pnpm test",
		Build:     "pnpm build",
		Dev:       "pnpm dev",
	},
	"yarn": {
		Name:      "yarn",
		Lockfiles: []string{"yarn.lock"},
		Install:   "yarn",
		Run:       "yarn",
		Exec:      "yarn dlx",
		Test:      "yarn test",
		Build:     "yarn build",
		Dev:       "yarn dev",
	},
	"bun": {
		Name:      "bun",
		Lockfiles: []string{"bun.lockb", "bun.lock"},
		Install:   "bun install",
		Run:       "bun run",
		Exec:      "bunx",
		Test:      "bun test",
		Build:     "bun run build",
		Dev:       "bun run dev",
	},
}

// DefaultDetectionOrder is the PATH probing order
var DefaultDetectionOrder = []string{"pnpm", "bun", "yarn", "npm"}

// Lookup returns the manager called name
func Lookup(name string) (Manager, error) {
	m, ok := managers[name]
	if !ok {
		return Manager{}, fmt.Errorf("%w: %q", ErrUnknownManager, name)
	}
	return m, nil
}

// Known reports whether name is in the manager table
func Known(name string) bool {
	_, ok := managers[name]
	return ok
}

// Names returns every known manager name in detection order
func Names() []string {
	return slices.Clone(DefaultDetectionOrder)
}

// RunScript returns the command that runs a package.json script
func (m Manager) RunScript(script string) string {
	switch script {
	case "install":
		return m.Install
	case "test":
		return m.Test
	case "build":
		return m.Build
	case "dev":
		return m.Dev
	default:
		return m.Run + " " + script
	}
}

// ExecCommand returns the command that runs a one-off package binary
func (m Manager) ExecCommand(binary string) string {
	return m.Exec + " " + binary
}
