package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	app := newApplication()
	if err := app.rootCommand().ExecuteContext(ctx); err != nil {
		app.log.Error(err.Error())
		cancel()
		os.Exit(1)
	}
}

func (a *application) rootCommand() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "mysqlfdw",
		Short:         "Plan, explain and scan MySQL backed foreign tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := hclog.LevelFromString(logLevel)
			if level == hclog.NoLevel {
				return fmt.Errorf("invalid log level: %q", logLevel)
			}
			a.log = hclog.New(&hclog.LoggerOptions{
				Name:   "mysqlfdw",
				Level:  level,
				Output: cmd.ErrOrStderr(),
			})
			a.out = cmd.OutOrStdout()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "trace, debug, info, warn or error")

	root.AddCommand(
		a.planCommand(),
		a.explainCommand(),
		a.scanCommand(),
		a.validateCommand(),
	)

	return root
}
