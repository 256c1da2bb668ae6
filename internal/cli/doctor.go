package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jyang234/aef/primer/internal/aliases"
	"github.com/jyang234/aef/primer/internal/config"
	"github.com/jyang234/aef/primer/internal/discovery"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check primer installation health",
	Long:  `Runs diagnostic checks on the primer installation and reports pass/fail for each component.`,
	RunE:  runDoctor,
}

type checkResult struct {
	section string
	name    string
	ok      bool
	detail  string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, cfgErr := config.Load()
	cwd, _ := os.Getwd()

	results := diagnose(afero.NewOsFs(), cfg, cfgErr, cwd, exec.LookPath)
	printChecks(cmd.OutOrStdout(), results)
	return nil
}

func diagnose(fsys afero.Fs, cfg *config.Config, cfgErr error, cwd string, lookPath func(string) (string, error)) []checkResult {
	var results []checkResult
	add := func(section, name string, ok bool, detail string) {
		results = append(results, checkResult{section, name, ok, detail})
	}
	dirExists := func(path string) bool {
		ok, _ := afero.DirExists(fsys, path)
		return ok
	}

	const setup = "Claude Code directories:"
	add(setup, "config readable", cfgErr == nil, errString(cfgErr))
	add(setup, cfg.ClaudeDir, dirExists(cfg.ClaudeDir), "install Claude Code")
	add(setup, cfg.Sessions.Dir, dirExists(cfg.Sessions.Dir), "run: primer init")
	add(setup, cfg.Skills.LearnedDir, dirExists(cfg.Skills.LearnedDir), "run: primer init")

	const cmds = "Slash commands:"
	for _, name := range []string{"sessions.md", "setup-pm.md"} {
		global := filepath.Join(cfg.ClaudeDir, "commands", name)
		local := filepath.Join(cwd, ".claude", "commands", name)
		ok := fileExists(fsys, global) || fileExists(fsys, local)
		add(cmds, name, ok, "run: primer init")
	}

	const sessions = "Sessions:"
	recent := discovery.NewFinder(fsys).Find(cfg.Sessions.Dir, discovery.SessionFiles, discovery.Options{MaxAgeDays: cfg.Sessions.MaxAgeDays})
	add(sessions, fmt.Sprintf("%d recent session file(s)", len(recent)), true, "")
	reg, err := aliases.OpenReadOnly(fsys, cfg.Aliases)
	if err != nil {
		add(sessions, "alias store ("+cfg.Aliases.Backend+")", false, err.Error())
	} else {
		list, listErr := reg.List(aliases.ListOptions{})
		add(sessions, fmt.Sprintf("alias store (%s, %d alias(es))", cfg.Aliases.Backend, len(list)), listErr == nil, errString(listErr))
		reg.Close()
	}

	const update = "Self-update:"
	if !cfg.Update.Enabled {
		add(update, "disabled in config", true, "")
	} else {
		_, gitErr := lookPath("git")
		add(update, "git binary", gitErr == nil, "install git")
		add(update, "plugin checkout "+cfg.Update.PluginRoot, dirExists(filepath.Join(cfg.Update.PluginRoot, ".git")),
			"not a git checkout; updates are skipped")
	}

	return results
}

func printChecks(w io.Writer, results []checkResult) {
	passed, failed := 0, 0
	section := ""
	for _, r := range results {
		if r.section != section {
			if section != "" {
				fmt.Fprintln(w)
			}
			section = r.section
			fmt.Fprintln(w, headerStyle.Render(section))
		}
		if r.ok {
			fmt.Fprintf(w, "  %s %s\n", passStyle.Render("✓"), r.name)
			passed++
		} else {
			fmt.Fprintf(w, "  %s %s: %s\n", failStyle.Render("✗"), r.name, noteStyle.Render(r.detail))
			failed++
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Results: %d passed, %d failed\n", passed, failed)
}

func fileExists(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && !info.IsDir()
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
