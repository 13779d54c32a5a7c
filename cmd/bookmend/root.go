package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/bookmend/cmd/bookmend/opts"
	"github.com/walteh/bookmend/pkg/log"
)

var debug bool

// newRootOpts creates the shared command dependencies. The config is
// loaded lazily by each command, after flag parsing.
func newRootOpts(ctx context.Context) (*opts.RootOpts, error) {
	return &opts.RootOpts{
		ConfigPath: ".bookmend.yaml",
		Console:    log.New(os.Stdout, zerolog.InfoLevel),
	}, nil
}

// addRootFlags binds shared flags into the root options.
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigPath, "config", "c", o.ConfigPath, "rule file path (yaml, toml, hcl or legacy txt)")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if debug {
			ctx := zerolog.Ctx(cmd.Context()).Level(zerolog.DebugLevel).WithContext(cmd.Context())
			cmd.SetContext(ctx)
		}
	}
}

// setupLogging builds the root zerolog context.
func setupLogging(ctx context.Context) context.Context {
	logger := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	return logger.WithContext(ctx)
}
