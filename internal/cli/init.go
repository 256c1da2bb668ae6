package cli

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jyang234/aef/primer/internal/assets"
	"github.com/jyang234/aef/primer/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create primer directories and install slash commands",
	Long: `Initialize primer.

Creates the sessions and learned-skills directories, writes ~/.primer/config.yaml
if it does not exist, and installs the /sessions and /setup-pm slash commands
into ~/.claude/commands (or .claude/commands with --project).`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	initCmd.Flags().Bool("project", false, "Install slash commands into the current project")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	project, _ := cmd.Flags().GetBool("project")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	commandsDir := filepath.Join(cfg.ClaudeDir, "commands")
	if project {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		commandsDir = filepath.Join(cwd, ".claude", "commands")
	}

	res, err := initialize(afero.NewOsFs(), cfg, config.GlobalConfigPath(), commandsDir, force)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Initialized primer")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Directories:")
	fmt.Fprintf(out, "  %s\n", cfg.Sessions.Dir)
	fmt.Fprintf(out, "  %s\n", cfg.Skills.LearnedDir)
	if res.configWritten {
		fmt.Fprintf(out, "Config: %s\n", res.configPath)
	}
	if len(res.installed) > 0 {
		fmt.Fprintf(out, "Slash commands installed to %s:\n", commandsDir)
		for _, name := range res.installed {
			fmt.Fprintf(out, "  %s\n", name)
		}
	} else {
		fmt.Fprintln(out, "Slash commands already up to date")
	}
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  Add \"primer hook session-start\" as a SessionStart hook")
	fmt.Fprintln(out, "  Add \"primer hook session-end\" as a SessionEnd hook")
	return nil
}

type initResult struct {
	configPath    string
	configWritten bool
	installed     []string
}

func initialize(fsys afero.Fs, cfg *config.Config, configPath, commandsDir string, force bool) (*initResult, error) {
	for _, dir := range []string{cfg.Sessions.Dir, cfg.Skills.LearnedDir} {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	res := &initResult{configPath: configPath}
	if exists, _ := afero.Exists(fsys, configPath); !exists || force {
		if err := config.WriteDefault(fsys, configPath); err != nil {
			return nil, fmt.Errorf("failed to write config: %w", err)
		}
		res.configWritten = true
	}

	installed, err := installCommands(fsys, commandsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to install commands: %w", err)
	}
	res.installed = installed
	return res, nil
}

// installCommands copies the embedded slash commands into dstDir, skipping
// files that are already identical. It returns the names it wrote.
func installCommands(fsys afero.Fs, dstDir string) ([]string, error) {
	if err := fsys.MkdirAll(dstDir, 0755); err != nil {
		return nil, err
	}

	var installed []string
	err := fs.WalkDir(assets.Commands, "commands", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".md" {
			return nil
		}

		content, err := assets.Commands.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		dstPath := filepath.Join(dstDir, path.Base(p))
		if !needsCopy(fsys, content, dstPath) {
			return nil
		}
		if err := afero.WriteFile(fsys, dstPath, content, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dstPath, err)
		}
		installed = append(installed, path.Base(p))
		return nil
	})
	return installed, err
}

// needsCopy reports whether dst is missing, empty or different from content
func needsCopy(fsys afero.Fs, content []byte, dst string) bool {
	existing, err := afero.ReadFile(fsys, dst)
	if err != nil || len(existing) == 0 {
		return true
	}
	return sha256.Sum256(existing) != sha256.Sum256(content)
}
