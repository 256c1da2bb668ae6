package bootstrap

import (
	"fmt"

	"github.com/jyang234/aef/primer/internal/pkgmgr"
	"github.com/jyang234/aef/primer/internal/selfupdate"
)

// Step names, in run order
const (
	StepUpdate   = "self-update"
	StepDirs     = "ensure-dirs"
	StepSessions = "sessions"
	StepInject   = "inject"
	StepSkills   = "skills"
	StepAliases  = "aliases"
	StepPackage  = "package-manager"
)

// StepSetup names faults raised while building the orchestrator, before
// any step runs
const StepSetup = "setup"

// Steps lists every step in run order
var Steps = []string{StepUpdate, StepDirs, StepSessions, StepInject, StepSkills, StepAliases, StepPackage}

// StepError is a failure inside one step
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Report summarizes a run
type Report struct {
	Update    selfupdate.Result
	UpdateErr error

	Sessions      int
	LatestSession string
	Injected      bool

	Skills  int
	Aliases []string

	PackageManager pkgmgr.Decision
	Prompted       bool

	// Steps that ran, in order
	Ran    []string
	Faults []*StepError
}

// OK reports whether every step finished cleanly
func (r *Report) OK() bool {
	return len(r.Faults) == 0
}
