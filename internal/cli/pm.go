package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jyang234/aef/primer/internal/config"
	"github.com/jyang234/aef/primer/internal/pkgmgr"
)

var pmCmd = &cobra.Command{
	Use:   "pm",
	Short: "Package manager detection and preference",
}

var pmDetectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Show the package manager for the current project and why",
	RunE:  runPMDetect,
}

var pmSetCmd = &cobra.Command{
	Use:       "set <npm|pnpm|yarn|bun>",
	Short:     "Save a package manager preference",
	Args:      cobra.ExactArgs(1),
	ValidArgs: pkgmgr.Names(),
	RunE:      runPMSet,
}

var pmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known package managers and whether they are installed",
	RunE:  runPMList,
}

func init() {
	pmCmd.AddCommand(pmDetectCmd)
	pmCmd.AddCommand(pmSetCmd)
	pmCmd.AddCommand(pmListCmd)

	pmDetectCmd.Flags().Bool("json", false, "Print the decision as JSON")
	pmSetCmd.Flags().Bool("global", false, "Save to ~/.claude/package-manager.json instead of the project")
}

func newResolver(cfg *config.Config) *pkgmgr.Resolver {
	return pkgmgr.NewResolver(afero.NewOsFs(), pkgmgr.Options{
		Preferred:        cfg.PackageManager.Preferred,
		GlobalConfigPath: cfg.PackageManagerPreferencePath(),
		DetectionOrder:   cfg.PackageManager.DetectionOrder,
		Default:          cfg.PackageManager.Default,
	})
}

func runPMDetect(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	d := newResolver(cfg).Resolve(cwd)
	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}

	printDecision(out, d)
	return nil
}

func printDecision(w io.Writer, d pkgmgr.Decision) {
	m := d.Manager()
	fmt.Fprintf(w, "Package manager: %s\n", headerStyle.Render(d.Name))
	fmt.Fprintf(w, "  source: %s (%s)\n", d.Source, d.Origin)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintf(w, "  install  %s\n", m.Install)
	fmt.Fprintf(w, "  run      %s\n", m.RunScript("<script>"))
	fmt.Fprintf(w, "  exec     %s\n", m.ExecCommand("<binary>"))
	fmt.Fprintf(w, "  test     %s\n", m.Test)
	fmt.Fprintf(w, "  build    %s\n", m.Build)
	fmt.Fprintf(w, "  dev      %s\n", m.Dev)
}

func runPMSet(cmd *cobra.Command, args []string) error {
	global, _ := cmd.Flags().GetBool("global")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := cfg.PackageManagerPreferencePath()
	if !global {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		path = pkgmgr.ProjectPreferencePath(cwd)
	}

	if err := pkgmgr.SetPreference(afero.NewOsFs(), path, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Package manager set to %s in %s\n", args[0], path)
	return nil
}

func runPMList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	available := map[string]bool{}
	for _, name := range newResolver(cfg).Available() {
		available[name] = true
	}

	out := cmd.OutOrStdout()
	for _, name := range pkgmgr.Names() {
		m, _ := pkgmgr.Lookup(name)
		mark := failStyle.Render("✗")
		if available[name] {
			mark = passStyle.Render("✓")
		}
		fmt.Fprintf(out, "  %s %-5s  %s\n", mark, name, dimStyle.Render(m.Install))
	}
	return nil
}
