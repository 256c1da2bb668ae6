package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jyang234/aef/primer/internal/aliases"
	"github.com/jyang234/aef/primer/internal/discovery"
	"github.com/jyang234/aef/primer/pkg/types"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect saved sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions, newest first",
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <alias|file>",
	Short: "Print a session file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)

	sessionsListCmd.Flags().Bool("all", false, "Include sessions older than the age window")
	sessionsListCmd.Flags().Int("limit", 0, "Number of sessions to show (0 for all)")
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := discovery.Options{MaxAgeDays: cfg.Sessions.MaxAgeDays}
	if all {
		opts.MaxAgeDays = 0
	}
	sessions := discovery.NewFinder(nil).Find(cfg.Sessions.Dir, discovery.SessionFiles, opts)
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}

	byPath := map[string][]string{}
	if reg, err := aliases.OpenReadOnly(afero.NewOsFs(), cfg.Aliases); err == nil {
		defer reg.Close()
		list, _ := reg.List(aliases.ListOptions{})
		for _, a := range list {
			byPath[a.SessionPath] = append(byPath[a.SessionPath], a.Name)
		}
	}

	printSessions(cmd.OutOrStdout(), sessions, byPath)
	return nil
}

func printSessions(w io.Writer, sessions []types.SessionFile, byPath map[string][]string) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No recent sessions found.")
		return
	}

	fmt.Fprintf(w, "Recent Sessions (%d):\n\n", len(sessions))
	for _, s := range sessions {
		name := filepath.Base(s.Path)
		id := discovery.ShortID(name)
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "  %s  %-8s  %s", s.ModifiedAt.Format("2006-01-02 15:04"), id, name)
		if names := byPath[s.Path]; len(names) > 0 {
			fmt.Fprintf(w, "  %s", aliasStyle.Render(strings.Join(names, ", ")))
		}
		fmt.Fprintln(w)
	}
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	path, err := resolveSessionRef(fs, cfg.Sessions.Dir, args[0])
	if err != nil {
		reg, openErr := aliases.OpenReadOnly(fs, cfg.Aliases)
		if openErr != nil {
			return openErr
		}
		defer reg.Close()

		a, aliasErr := reg.Resolve(args[0])
		if aliasErr != nil {
			return fmt.Errorf("no session file or alias named %q", args[0])
		}
		path = a.SessionPath
	}

	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(content))
	return nil
}

// resolveSessionRef accepts an absolute path, a path relative to the working
// directory, or a bare file name inside the sessions directory
func resolveSessionRef(fs afero.Fs, sessionsDir, ref string) (string, error) {
	candidates := []string{ref}
	if !filepath.IsAbs(ref) {
		candidates = append(candidates, filepath.Join(sessionsDir, ref))
	}
	for _, c := range candidates {
		info, err := fs.Stat(c)
		if err == nil && info.Mode().IsRegular() {
			abs, err := filepath.Abs(c)
			if err != nil {
				return c, nil
			}
			return abs, nil
		}
	}
	return "", fmt.Errorf("session file not found: %s", ref)
}
