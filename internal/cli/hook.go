package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jyang234/aef/primer/internal/bootstrap"
	"github.com/jyang234/aef/primer/internal/briefing"
	"github.com/jyang234/aef/primer/internal/config"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Claude Code hook entry points",
	Long: `Hook entry points read Claude Code's hook JSON from stdin and always exit 0.
Notices go to stderr; only the injected session summary goes to stdout.`,
}

var hookSessionStartCmd = &cobra.Command{
	Use:   "session-start",
	Short: "Restore context at the start of a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		RunSessionStart(cmd.Context(), config.OSEnv(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		return nil
	},
}

var hookSessionEndCmd = &cobra.Command{
	Use:   "session-end",
	Short: "Create or refresh today's session file",
	RunE: func(cmd *cobra.Command, args []string) error {
		RunSessionEnd(config.OSEnv(), afero.NewOsFs(), cmd.InOrStdin(), cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	hookCmd.AddCommand(hookSessionStartCmd)
	hookCmd.AddCommand(hookSessionEndCmd)
}

// RunSessionStart runs the SessionStart sequence for one hook invocation.
// It never fails; problems surface as advisory lines on stderr.
func RunSessionStart(ctx context.Context, env config.Env, in io.Reader, stdout, stderr io.Writer) (report *bootstrap.Report) {
	defer func() {
		if p := recover(); p != nil {
			fault := &bootstrap.StepError{Step: bootstrap.StepSetup, Err: fmt.Errorf("panic: %v", p)}
			fmt.Fprintf(stderr, "%s Error: %v\n", bootstrap.AdvisoryPrefix, fault)
			if report == nil {
				report = &bootstrap.Report{}
			}
			report.Faults = append(report.Faults, fault)
		}
	}()

	input := bootstrap.ReadHookInput(in)
	if input.Cwd != "" {
		env.Cwd = input.Cwd
	}

	cfg, err := config.LoadFrom(env)
	if err != nil {
		fmt.Fprintf(stderr, "%s Error: %v\n", bootstrap.AdvisoryPrefix, err)
	}

	log := newLogger(cfg, stderr).WithSession(sessionID(input, env))
	defer log.Close()

	o, closeAliases := bootstrap.New(cfg, bootstrap.Runtime{
		ProjectDir: env.Cwd,
		Stdout:     stdout,
		Stderr:     stderr,
		Log:        log,
	})
	defer closeAliases()

	return o.Run(ctx)
}

// RunSessionEnd makes sure today's session file exists so the assistant can
// fill in a summary for the next session
func RunSessionEnd(env config.Env, fs afero.Fs, in io.Reader, stderr io.Writer) {
	input := bootstrap.ReadHookInput(in)
	if input.Cwd != "" {
		env.Cwd = input.Cwd
	}

	cfg, err := config.LoadFrom(env)
	if err != nil {
		fmt.Fprintf(stderr, "[SessionEnd] Error: %v\n", err)
	}

	sid := sessionID(input, env)
	log := newLogger(cfg, stderr).WithSession(sid)
	defer log.Close()

	path, created, err := briefing.NewWriter(fs).Touch(cfg.Sessions.Dir, briefing.ShortID(sid))
	if err != nil {
		log.Error("session file update failed", "error", err)
		fmt.Fprintf(stderr, "[SessionEnd] Error: %v\n", err)
		return
	}

	log.Info("session file touched", "path", path, "created", created)
	if created {
		fmt.Fprintf(stderr, "[SessionEnd] Created session file: %s\n", path)
	} else {
		fmt.Fprintf(stderr, "[SessionEnd] Updated session file: %s\n", path)
	}
}

func sessionID(input bootstrap.HookInput, env config.Env) string {
	if input.SessionID != "" {
		return input.SessionID
	}
	if env.Getenv != nil {
		return env.Getenv(config.EnvSessionID)
	}
	return ""
}
