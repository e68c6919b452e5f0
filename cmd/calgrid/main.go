// Command calgrid lays out overlapping calendar events and renders them.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/calgrid/internal/cli"
	calerrors "github.com/matzehuels/calgrid/pkg/errors"

	_ "time/tzdata"
)

// Exit codes.
const (
	exitError       = 1
	exitInvalidArgs = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	}
	fmt.Fprintln(os.Stderr, "calgrid:", err)
	if calerrors.GetCode(err).Class() == calerrors.ClassInput {
		return exitInvalidArgs
	}
	return exitError
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")

	// The level must be set before the root pre-run installs log hooks.
	installHooks := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if installHooks == nil {
			return nil
		}
		return installHooks(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
