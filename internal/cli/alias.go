package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jyang234/aef/primer/internal/aliases"
	"github.com/jyang234/aef/primer/pkg/types"
)

var aliasCmd = &cobra.Command{
	Use:     "alias",
	Aliases: []string{"aliases"},
	Short:   "Name sessions for quick access",
}

var aliasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List aliases, most recently created first",
	RunE:  runAliasList,
}

var aliasSetCmd = &cobra.Command{
	Use:   "set <name> <session-file>",
	Short: "Create or repoint an alias",
	Args:  cobra.ExactArgs(2),
	RunE:  runAliasSet,
}

var aliasRemoveCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove an alias",
	Args:    cobra.ExactArgs(1),
	RunE:    runAliasRemove,
}

var aliasRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename an alias",
	Args:  cobra.ExactArgs(2),
	RunE:  runAliasRename,
}

var aliasShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the session an alias points to",
	Args:  cobra.ExactArgs(1),
	RunE:  runAliasShow,
}

var aliasCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove aliases whose session file is gone",
	RunE:  runAliasCleanup,
}

func init() {
	aliasCmd.AddCommand(aliasListCmd)
	aliasCmd.AddCommand(aliasSetCmd)
	aliasCmd.AddCommand(aliasRemoveCmd)
	aliasCmd.AddCommand(aliasRenameCmd)
	aliasCmd.AddCommand(aliasShowCmd)
	aliasCmd.AddCommand(aliasCleanupCmd)

	aliasListCmd.Flags().Int("limit", -1, "Maximum aliases to show (default from config, 0 for all)")
	aliasListCmd.Flags().String("search", "", "Only aliases whose name or title contains this text")
	aliasSetCmd.Flags().String("title", "", "Optional description")
	aliasShowCmd.Flags().Bool("content", false, "Print the session file contents")
}

// withRegistry opens the configured alias store for the duration of fn
func withRegistry(fn func(reg *aliases.Registry, sessionsDir string) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := aliases.Open(afero.NewOsFs(), cfg.Aliases)
	if err != nil {
		return fmt.Errorf("failed to open alias store: %w", err)
	}
	defer reg.Close()
	return fn(reg, cfg.Sessions.Dir)
}

func runAliasList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	search, _ := cmd.Flags().GetString("search")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if limit < 0 {
		limit = cfg.Aliases.ListLimit
	}

	reg, err := aliases.OpenReadOnly(afero.NewOsFs(), cfg.Aliases)
	if err != nil {
		return fmt.Errorf("failed to open alias store: %w", err)
	}
	defer reg.Close()

	list, err := reg.List(aliases.ListOptions{Limit: limit, Search: search})
	if err != nil {
		return err
	}
	printAliases(cmd.OutOrStdout(), list)
	return nil
}

func printAliases(w io.Writer, list []types.Alias) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No aliases found.")
		return
	}

	fmt.Fprintf(w, "Aliases (%d):\n\n", len(list))
	for _, a := range list {
		fmt.Fprintf(w, "  %s  %s\n", aliasStyle.Render(fmt.Sprintf("%-20s", a.Name)), a.SessionPath)
		if a.Title != "" {
			fmt.Fprintf(w, "    %s\n", a.Title)
		}
		fmt.Fprintf(w, "    %s\n", dimStyle.Render("created "+a.CreatedAt.Local().Format("2006-01-02 15:04")))
	}
}

func runAliasSet(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")

	return withRegistry(func(reg *aliases.Registry, sessionsDir string) error {
		path, err := resolveSessionRef(afero.NewOsFs(), sessionsDir, args[1])
		if err != nil {
			return err
		}
		a, err := reg.Set(args[0], path, title)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Alias %s -> %s\n", a.Name, a.SessionPath)
		return nil
	})
}

func runAliasRemove(cmd *cobra.Command, args []string) error {
	return withRegistry(func(reg *aliases.Registry, _ string) error {
		if err := reg.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed alias %s\n", args[0])
		return nil
	})
}

func runAliasRename(cmd *cobra.Command, args []string) error {
	return withRegistry(func(reg *aliases.Registry, _ string) error {
		a, err := reg.Rename(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", args[0], a.Name)
		return nil
	})
}

func runAliasShow(cmd *cobra.Command, args []string) error {
	content, _ := cmd.Flags().GetBool("content")

	return withRegistry(func(reg *aliases.Registry, _ string) error {
		a, err := reg.Resolve(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !content {
			fmt.Fprintln(out, a.SessionPath)
			return nil
		}
		data, err := os.ReadFile(a.SessionPath)
		if err != nil {
			return fmt.Errorf("alias %s points at a missing session: %w", a.Name, err)
		}
		fmt.Fprint(out, string(data))
		return nil
	})
}

func runAliasCleanup(cmd *cobra.Command, args []string) error {
	return withRegistry(func(reg *aliases.Registry, _ string) error {
		removed, err := reg.Cleanup(func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(removed) == 0 {
			fmt.Fprintln(out, "No stale aliases.")
			return nil
		}
		for _, name := range removed {
			fmt.Fprintf(out, "Removed %s\n", name)
		}
		return nil
	})
}
