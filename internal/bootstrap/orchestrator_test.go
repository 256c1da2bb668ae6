package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jyang234/aef/primer/internal/aliases"
	"github.com/jyang234/aef/primer/internal/briefing"
	"github.com/jyang234/aef/primer/internal/config"
	"github.com/jyang234/aef/primer/internal/discovery"
	"github.com/jyang234/aef/primer/internal/pkgmgr"
	"github.com/jyang234/aef/primer/internal/selfupdate"
	"github.com/jyang234/aef/primer/pkg/types"
)

var now = time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)

const (
	claudeDir   = "/home/u/.claude"
	sessionsDir = "/home/u/.claude/sessions"
	learnedDir  = "/home/u/.claude/skills/learned"
	projectDir  = "/work/app"
)

type fakeUpdater struct {
	res   selfupdate.Result
	err   error
	block chan struct{}
}

func (f *fakeUpdater) Update(ctx context.Context) (selfupdate.Result, error) {
	if f.block != nil {
		// ignores ctx on purpose
		<-f.block
	}
	return f.res, f.err
}

type panickySelector struct{}

func (panickySelector) Recent(string) []types.SessionFile { panic("boom") }

func (panickySelector) SelectForInjection(string) (string, bool) { return "", false }

type harness struct {
	fs     afero.Fs
	out    *bytes.Buffer
	errOut *bytes.Buffer
	o      *Orchestrator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fs := afero.NewMemMapFs()
	finder := discovery.NewFinder(fs).WithClock(func() time.Time { return now })
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	return &harness{
		fs:     fs,
		out:    out,
		errOut: errOut,
		o: &Orchestrator{
			Settings: Settings{
				SessionsDir:   sessionsDir,
				LearnedDir:    learnedDir,
				ProjectDir:    projectDir,
				SummaryPrefix: "Previous session summary:",
				AliasLimit:    5,
				PromptSources: []string{"fallback", "default"},
				UpdateTimeout: time.Second,
			},
			FS:       fs,
			Updater:  &fakeUpdater{res: selfupdate.Unchanged},
			Selector: briefing.NewSelector(fs, finder, config.DefaultConfig().Sessions),
			Skills:   finder,
			Aliases:  aliases.NewRegistry(aliases.NewJSONStore(fs, filepath.Join(claudeDir, "session-aliases.json"))),
			Resolver: pkgmgr.NewResolver(fs, pkgmgr.Options{
				LookPath: func(string) (string, error) { return "", errors.New("not found") },
			}),
			Out:    out,
			Notify: NewNotifier(errOut),
		},
	}
}

func (h *harness) write(t *testing.T, path, content string, age time.Duration) {
	t.Helper()
	require.NoError(t, h.fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(h.fs, path, []byte(content), 0644))
	mod := now.Add(-age)
	require.NoError(t, h.fs.Chtimes(path, mod, mod))
}

func TestRunEmptyEnvironment(t *testing.T) {
	h := newHarness(t)

	r := h.o.Run(context.Background())

	assert.True(t, r.OK())
	assert.Equal(t, Steps, r.Ran)
	assert.False(t, r.Injected)
	assert.Empty(t, h.out.String())

	for _, dir := range []string{sessionsDir, learnedDir} {
		ok, err := afero.DirExists(h.fs, dir)
		require.NoError(t, err)
		assert.True(t, ok, dir)
	}

	advice := h.errOut.String()
	assert.Contains(t, advice, "[SessionStart] Package manager: npm (default)\n")
	assert.Contains(t, advice, "[SessionStart] No package manager preference found.\n")
	assert.Contains(t, advice, "[PackageManager] Available package managers:")
	assert.NotContains(t, advice, "recent session")
	assert.NotContains(t, advice, "alias")
	assert.True(t, r.Prompted)
	assert.Equal(t, pkgmgr.SourceDefault, r.PackageManager.Source)
}

func TestRunInjectsLatestSession(t *testing.T) {
	h := newHarness(t)
	older := filepath.Join(sessionsDir, "2026-03-13-aaaa1111-session.tmp")
	latest := filepath.Join(sessionsDir, "2026-03-15-bbbb2222-session.tmp")
	h.write(t, older, "# older\nDid things.", 48*time.Hour)
	h.write(t, latest, "# latest\nShipped the parser.", time.Hour)

	r := h.o.Run(context.Background())

	assert.True(t, r.Injected)
	assert.Equal(t, "Previous session summary:\n# latest\nShipped the parser.", h.out.String())
	assert.Equal(t, 2, r.Sessions)
	assert.Equal(t, latest, r.LatestSession)

	advice := h.errOut.String()
	assert.Contains(t, advice, "[SessionStart] Found 2 recent session(s)\n")
	assert.Contains(t, advice, "[SessionStart] Latest: "+latest+"\n")
}

func TestRunSkipsBlankTemplate(t *testing.T) {
	h := newHarness(t)
	h.write(t, filepath.Join(sessionsDir, "2026-03-15-session.tmp"), "# Session\n"+config.DefaultPlaceholder+"\n", time.Hour)
	h.write(t, filepath.Join(sessionsDir, "2026-03-14-session.tmp"), "# real content", 24*time.Hour)

	r := h.o.Run(context.Background())

	assert.False(t, r.Injected)
	assert.Empty(t, h.out.String())
	assert.Equal(t, 2, r.Sessions)
}

func TestRunReportsSkillsAndAliases(t *testing.T) {
	h := newHarness(t)
	h.write(t, filepath.Join(learnedDir, "retry.md"), "# retry", 0)
	h.write(t, filepath.Join(learnedDir, "notes.txt"), "ignored", 0)

	reg := aliases.NewRegistry(aliases.NewJSONStore(h.fs, filepath.Join(claudeDir, "session-aliases.json")))
	for i, name := range []string{"one", "two", "three", "four", "five", "six"} {
		at := now.Add(time.Duration(i) * time.Minute)
		_, err := reg.WithClock(func() time.Time { return at }).Set(name, "/s/x-session.tmp", "")
		require.NoError(t, err)
	}

	r := h.o.Run(context.Background())

	assert.Equal(t, 1, r.Skills)
	assert.Equal(t, []string{"six", "five", "four", "three", "two"}, r.Aliases)

	advice := h.errOut.String()
	assert.Contains(t, advice, "[SessionStart] 1 learned skill(s) available in "+learnedDir+"\n")
	assert.Contains(t, advice, "[SessionStart] 5 session alias(es) available: six, five, four, three, two\n")
	assert.Contains(t, advice, "[SessionStart] Use /sessions load <alias> to continue a previous session\n")
}

func TestRunLockfileEvidenceSkipsPrompt(t *testing.T) {
	h := newHarness(t)
	h.write(t, filepath.Join(projectDir, "pnpm-lock.yaml"), "", 0)

	r := h.o.Run(context.Background())

	assert.Equal(t, pkgmgr.Decision{Name: "pnpm", Source: pkgmgr.SourceEvidence, Origin: pkgmgr.OriginLockfile}, r.PackageManager)
	assert.False(t, r.Prompted)
	assert.Contains(t, h.errOut.String(), "[SessionStart] Package manager: pnpm (evidence)\n")
	assert.NotContains(t, h.errOut.String(), "No package manager preference found.")
}

func TestRunExplicitPreferenceSkipsPrompt(t *testing.T) {
	h := newHarness(t)
	h.write(t, filepath.Join(projectDir, "pnpm-lock.yaml"), "", 0)
	h.write(t, pkgmgr.ProjectPreferencePath(projectDir), `{"packageManager": "yarn"}`, 0)

	r := h.o.Run(context.Background())

	assert.Equal(t, pkgmgr.Decision{Name: "yarn", Source: pkgmgr.SourceExplicit, Origin: pkgmgr.OriginProjectConfig}, r.PackageManager)
	assert.False(t, r.Prompted)
	assert.Contains(t, h.errOut.String(), "[SessionStart] Package manager: yarn (explicit-config)\n")
	assert.NotContains(t, h.errOut.String(), "No package manager preference found.")
}

func TestRunUpdateTimeoutStillCompletes(t *testing.T) {
	h := newHarness(t)
	block := make(chan struct{})
	defer close(block)
	h.o.Updater = &fakeUpdater{block: block}
	h.o.Settings.UpdateTimeout = 20 * time.Millisecond

	r := h.o.Run(context.Background())

	assert.Equal(t, selfupdate.Failed, r.Update)
	assert.ErrorIs(t, r.UpdateErr, context.DeadlineExceeded)
	assert.True(t, r.OK())
	assert.Equal(t, Steps, r.Ran)
	assert.NotContains(t, h.errOut.String(), "auto-updated")
}

func TestRunUpdateFailureIsSilent(t *testing.T) {
	h := newHarness(t)
	h.o.Updater = &fakeUpdater{res: selfupdate.Failed, err: errors.New("offline")}

	r := h.o.Run(context.Background())

	assert.Equal(t, selfupdate.Failed, r.Update)
	assert.True(t, r.OK())
	assert.NotContains(t, h.errOut.String(), "offline")
}

func TestRunUpdatedAdvisory(t *testing.T) {
	h := newHarness(t)
	h.o.Updater = &fakeUpdater{res: selfupdate.Updated}

	r := h.o.Run(context.Background())

	assert.Equal(t, selfupdate.Updated, r.Update)
	assert.Contains(t, h.errOut.String(), "[SessionStart] Plugin auto-updated from remote\n")
}

func TestRunRecoversPanickingStep(t *testing.T) {
	h := newHarness(t)
	h.o.Selector = panickySelector{}

	r := h.o.Run(context.Background())

	require.Len(t, r.Faults, 1)
	assert.Equal(t, StepSessions, r.Faults[0].Step)
	assert.Equal(t, Steps, r.Ran)

	var faultLines int
	for _, line := range h.o.Notify.Lines() {
		if strings.HasPrefix(line, "[SessionStart] Error:") {
			faultLines++
			assert.Contains(t, line, "boom")
		}
	}
	assert.Equal(t, 1, faultLines)

	// later steps still ran
	assert.Contains(t, h.errOut.String(), "Package manager: npm (default)")
}

func TestRunAliasStoreFailure(t *testing.T) {
	h := newHarness(t)
	h.o.Aliases = brokenAliases{errors.New("database is locked")}

	r := h.o.Run(context.Background())

	require.Len(t, r.Faults, 1)
	assert.Equal(t, StepAliases, r.Faults[0].Step)
	assert.Contains(t, h.errOut.String(), "[SessionStart] Error: aliases: database is locked\n")
}

func TestNewFromConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := config.DefaultConfig()
	cfg.ClaudeDir = claudeDir
	cfg.Sessions.Dir = sessionsDir
	cfg.Skills.LearnedDir = learnedDir
	cfg.Aliases.Path = filepath.Join(claudeDir, "session-aliases.json")
	cfg.Update.Enabled = false
	cfg.PackageManager.Preferred = "yarn"

	var out, errOut bytes.Buffer
	o, closeFn := New(cfg, Runtime{FS: fs, ProjectDir: projectDir, Stdout: &out, Stderr: &errOut})
	defer closeFn()

	r := o.Run(context.Background())

	assert.True(t, r.OK())
	assert.Equal(t, pkgmgr.Decision{Name: "yarn", Source: pkgmgr.SourceExplicit, Origin: pkgmgr.OriginEnvironment}, r.PackageManager)
	assert.Equal(t, selfupdate.Unchanged, r.Update)
	assert.Contains(t, errOut.String(), "[SessionStart] Package manager: yarn (explicit-config)\n")
}
