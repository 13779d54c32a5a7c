package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/bookmend/cmd/bookmend/commands"
)

func main() {
	ctx := setupLogging(context.Background())

	rootCmd := &cobra.Command{
		Use:   "bookmend",
		Short: "A tool for cleaning up ebook texts",
		Long: `bookmend runs a rule-driven cleanup pipeline over ebook texts:
automatic replacements, abbreviation periods, pagination removal and
roman numeral conversion, followed by interactive passes for word
choices, all-caps sequences and suspicious numbered lines.`,
	}

	opts, err := newRootOpts(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to initialize")
		os.Exit(1)
	}
	addRootFlags(rootCmd, opts)

	rootCmd.AddCommand(
		commands.NewProcessCmd(opts),
		commands.NewBatchCmd(opts),
		commands.NewFetchCmd(opts),
		commands.NewRulesCmd(opts),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		opts.Console.Errorf("command failed: %v", err)
		os.Exit(1)
	}
}
