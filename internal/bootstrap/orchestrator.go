package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/jyang234/aef/primer/internal/aliases"
	"github.com/jyang234/aef/primer/internal/logging"
	"github.com/jyang234/aef/primer/internal/pkgmgr"
	"github.com/jyang234/aef/primer/internal/selfupdate"
	"github.com/jyang234/aef/primer/pkg/types"
)

// SessionSelector finds recent sessions and picks the one to inject
type SessionSelector interface {
	Recent(sessionsDir string) []types.SessionFile
	SelectForInjection(sessionsDir string) (string, bool)
}

// SkillFinder lists learned skills
type SkillFinder interface {
	Skills(dir string) []types.LearnedSkill
}

// AliasLister lists session aliases
type AliasLister interface {
	List(opts aliases.ListOptions) ([]types.Alias, error)
}

// PackageResolver decides the project's package manager
type PackageResolver interface {
	Resolve(projectDir string) pkgmgr.Decision
	Available() []string
}

// Settings are the plain values a run needs
type Settings struct {
	SessionsDir   string
	LearnedDir    string
	ProjectDir    string
	SummaryPrefix string
	AliasLimit    int
	PromptSources []string
	UpdateTimeout time.Duration
}

// Orchestrator runs the SessionStart steps
type Orchestrator struct {
	Settings Settings

	FS       afero.Fs
	Updater  selfupdate.Updater
	Selector SessionSelector
	Skills   SkillFinder
	Aliases  AliasLister
	Resolver PackageResolver

	Out    io.Writer
	Notify *Notifier
	Log    *logging.Logger
}

// Run executes every step and always returns a report
func (o *Orchestrator) Run(ctx context.Context) *Report {
	if o.Log == nil {
		o.Log = logging.Nop()
	}
	if o.Notify == nil {
		o.Notify = NewNotifier(nil)
	}
	if o.Out == nil {
		o.Out = io.Discard
	}

	r := &Report{}
	start := time.Now()

	o.step(r, StepUpdate, func() error { return o.update(ctx, r) })
	o.step(r, StepDirs, o.ensureDirs)
	o.step(r, StepSessions, func() error { return o.sessions(r) })
	o.step(r, StepInject, func() error { return o.inject(r) })
	o.step(r, StepSkills, func() error { return o.skills(r) })
	o.step(r, StepAliases, func() error { return o.aliases(r) })
	o.step(r, StepPackage, func() error { return o.packageManager(r) })

	o.Log.Info("session start complete",
		"duration_ms", time.Since(start).Milliseconds(),
		"sessions", r.Sessions,
		"injected", r.Injected,
		"faults", len(r.Faults),
	)
	return r
}

// step runs fn, turning an error or panic into one advisory line
func (o *Orchestrator) step(r *Report, name string, fn func() error) {
	r.Ran = append(r.Ran, name)
	log := o.Log.WithStep(name)

	var err error
	func() {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("panic: %v", p)
			}
		}()
		err = fn()
	}()

	if err == nil {
		log.Debug("step done")
		return
	}

	se := &StepError{Step: name, Err: err}
	r.Faults = append(r.Faults, se)
	log.Warn("step failed", "error", err)
	o.Notify.Notice("Error: %v", se)
}

func (o *Orchestrator) update(ctx context.Context, r *Report) error {
	if o.Updater == nil {
		r.Update = selfupdate.Unchanged
		return nil
	}

	timeout := o.Settings.UpdateTimeout
	if timeout <= 0 {
		timeout = selfupdate.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		res selfupdate.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{selfupdate.Failed, fmt.Errorf("panic: %v", p)}
			}
		}()
		res, err := o.Updater.Update(ctx)
		done <- outcome{res, err}
	}()

	// the updater is abandoned if it ignores ctx
	select {
	case out := <-done:
		r.Update, r.UpdateErr = out.res, out.err
	case <-ctx.Done():
		r.Update, r.UpdateErr = selfupdate.Failed, ctx.Err()
	}

	o.Log.Debug("self-update finished", "result", r.Update.String(), "error", r.UpdateErr)
	if r.Update == selfupdate.Updated {
		o.Notify.Notice("Plugin auto-updated from remote")
	}
	return nil
}

func (o *Orchestrator) ensureDirs() error {
	for _, dir := range []string{o.Settings.SessionsDir, o.Settings.LearnedDir} {
		if dir == "" {
			continue
		}
		if err := o.FS.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

func (o *Orchestrator) sessions(r *Report) error {
	recent := o.Selector.Recent(o.Settings.SessionsDir)
	r.Sessions = len(recent)
	if len(recent) == 0 {
		return nil
	}
	r.LatestSession = recent[0].Path
	o.Notify.Notice("Found %d recent session(s)", len(recent))
	o.Notify.Notice("Latest: %s", r.LatestSession)
	return nil
}

func (o *Orchestrator) inject(r *Report) error {
	if r.Injected {
		return nil
	}
	content, ok := o.Selector.SelectForInjection(o.Settings.SessionsDir)
	if !ok {
		return nil
	}
	if _, err := fmt.Fprintf(o.Out, "%s\n%s", o.Settings.SummaryPrefix, content); err != nil {
		return fmt.Errorf("failed to write session summary: %w", err)
	}
	r.Injected = true
	return nil
}

func (o *Orchestrator) skills(r *Report) error {
	skills := o.Skills.Skills(o.Settings.LearnedDir)
	r.Skills = len(skills)
	if len(skills) > 0 {
		o.Notify.Notice("%d learned skill(s) available in %s", len(skills), o.Settings.LearnedDir)
	}
	return nil
}

func (o *Orchestrator) aliases(r *Report) error {
	if o.Aliases == nil {
		return nil
	}
	list, err := o.Aliases.List(aliases.ListOptions{Limit: o.Settings.AliasLimit})
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return nil
	}

	names := make([]string, len(list))
	for i, a := range list {
		names[i] = a.Name
	}
	r.Aliases = names
	o.Notify.Notice("%d session alias(es) available: %s", len(names), strings.Join(names, ", "))
	o.Notify.Notice("Use /sessions load <alias> to continue a previous session")
	return nil
}

func (o *Orchestrator) packageManager(r *Report) error {
	d := o.Resolver.Resolve(o.Settings.ProjectDir)
	r.PackageManager = d
	o.Notify.Notice("Package manager: %s (%s)", d.Name, d.Source)

	if d.PromptRequired(o.Settings.PromptSources) {
		r.Prompted = true
		o.Notify.Notice("No package manager preference found.")
		o.Notify.Block(pkgmgr.SelectionPrompt(o.Resolver.Available(), d.Name))
	}
	return nil
}
