package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jqntn/timetracker/internal/config"
	"github.com/jqntn/timetracker/internal/window"
)

// windowCmd is started by the agent; users never run it directly.
var windowCmd = &cobra.Command{
	Use:    window.Subcommand,
	Short:  "Run the records window process",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stderr is the agent's log.
		log.SetPrefix("[" + config.AppName + "] ")
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return window.Run(ctx, os.Stdin)
	},
}
