package bootstrap

import (
	"io"

	"github.com/spf13/afero"

	"github.com/jyang234/aef/primer/internal/aliases"
	"github.com/jyang234/aef/primer/internal/briefing"
	"github.com/jyang234/aef/primer/internal/config"
	"github.com/jyang234/aef/primer/internal/discovery"
	"github.com/jyang234/aef/primer/internal/logging"
	"github.com/jyang234/aef/primer/internal/pkgmgr"
	"github.com/jyang234/aef/primer/internal/selfupdate"
	"github.com/jyang234/aef/primer/pkg/types"
)

// Runtime is what the hook process hands to the orchestrator
type Runtime struct {
	FS         afero.Fs
	ProjectDir string
	Stdout     io.Writer
	Stderr     io.Writer
	Log        *logging.Logger
}

// New builds an Orchestrator from configuration. The returned close func
// releases the alias store.
func New(cfg *config.Config, rt Runtime) (*Orchestrator, func() error) {
	fs := rt.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	finder := discovery.NewFinder(fs)

	var updater selfupdate.Updater = selfupdate.Disabled{}
	if cfg.Update.Enabled {
		u := selfupdate.NewGitUpdater(cfg.Update.PluginRoot)
		u.Timeout = cfg.Update.Timeout
		updater = u
	}

	closeFn := func() error { return nil }
	var lister AliasLister
	if reg, err := aliases.OpenReadOnly(fs, cfg.Aliases); err != nil {
		lister = brokenAliases{err}
	} else {
		lister = reg
		closeFn = reg.Close
	}

	prefix := cfg.Sessions.SummaryPrefix
	if prefix == "" {
		prefix = "Previous session summary:"
	}

	o := &Orchestrator{
		Settings: Settings{
			SessionsDir:   cfg.Sessions.Dir,
			LearnedDir:    cfg.Skills.LearnedDir,
			ProjectDir:    rt.ProjectDir,
			SummaryPrefix: prefix,
			AliasLimit:    cfg.Aliases.ListLimit,
			PromptSources: cfg.PackageManager.PromptSources,
			UpdateTimeout: cfg.Update.Timeout,
		},
		FS:       fs,
		Updater:  updater,
		Selector: briefing.NewSelector(fs, finder, cfg.Sessions),
		Skills:   finder,
		Aliases:  lister,
		Resolver: pkgmgr.NewResolver(fs, pkgmgr.Options{
			Preferred:        cfg.PackageManager.Preferred,
			GlobalConfigPath: cfg.PackageManagerPreferencePath(),
			DetectionOrder:   cfg.PackageManager.DetectionOrder,
			Default:          cfg.PackageManager.Default,
		}),
		Out:    rt.Stdout,
		Notify: NewNotifier(rt.Stderr),
		Log:    rt.Log,
	}
	return o, closeFn
}

// brokenAliases reports a store that failed to open when the alias step runs
type brokenAliases struct{ err error }

func (b brokenAliases) List(aliases.ListOptions) ([]types.Alias, error) {
	return nil, b.err
}
