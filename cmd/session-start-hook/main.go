// session-start-hook is a standalone SessionStart hook. It reads Claude
// Code's hook JSON from stdin, injects the previous session summary on
// stdout and prints notices on stderr. It always exits 0 so a broken
// environment never blocks a session from starting.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jyang234/aef/primer/internal/bootstrap"
	"github.com/jyang234/aef/primer/internal/cli"
	"github.com/jyang234/aef/primer/internal/config"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "%s Error: %v\n", bootstrap.AdvisoryPrefix, r)
		}
		os.Exit(0)
	}()

	cli.RunSessionStart(context.Background(), config.OSEnv(), os.Stdin, os.Stdout, os.Stderr)
}
