package cli

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jyang234/aef/primer/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect primer configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the merged configuration",
	Long: `Print the configuration after merging defaults, ~/.primer/config.yaml,
.primer/config.yaml and the environment. Paths are shown fully resolved.`,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config files and the paths they resolve to",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, dimStyle.Render("# defaults + global + project + environment"))
	fmt.Fprint(out, string(data))
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	// a broken file still has a path worth showing
	cfg, _ := config.Load()
	printConfigPaths(cmd.OutOrStdout(), afero.NewOsFs(), cfg, config.GlobalConfigPath(), config.ProjectConfigPath())
	return nil
}

// printConfigPaths lists the config files in merge order, then the data
// locations the merged config points at
func printConfigPaths(w io.Writer, fsys afero.Fs, cfg *config.Config, global, project string) {
	fmt.Fprintln(w, headerStyle.Render("Config files (later wins):"))
	for _, f := range []struct{ label, path string }{
		{"global", global},
		{"project", project},
	} {
		state := dimStyle.Render("not found")
		if fileExists(fsys, f.path) {
			state = passStyle.Render("loaded")
		}
		fmt.Fprintf(w, "  %-8s %s  %s\n", f.label, f.path, state)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Resolved paths:"))
	fmt.Fprintf(w, "  %-18s %s\n", "claude dir", cfg.ClaudeDir)
	fmt.Fprintf(w, "  %-18s %s\n", "sessions", cfg.Sessions.Dir)
	fmt.Fprintf(w, "  %-18s %s\n", "learned skills", cfg.Skills.LearnedDir)
	fmt.Fprintf(w, "  %-18s %s (%s)\n", "aliases", cfg.Aliases.Path, backendName(cfg.Aliases.Backend))
	fmt.Fprintf(w, "  %-18s %s\n", "pm preference", cfg.PackageManagerPreferencePath())
	fmt.Fprintf(w, "  %-18s %s\n", "plugin root", cfg.Update.PluginRoot)
}

func backendName(b string) string {
	if b == "" {
		return "json"
	}
	return b
}
