package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/bookmend/cmd/bookmend/opts"
	"github.com/walteh/bookmend/pkg/audit"
	"github.com/walteh/bookmend/pkg/config"
	"github.com/walteh/bookmend/pkg/fileio"
	"github.com/walteh/bookmend/pkg/log"
	"github.com/walteh/bookmend/pkg/pipeline"
	"github.com/walteh/bookmend/pkg/stage"
	"github.com/walteh/bookmend/pkg/tui"
	"gitlab.com/tozd/go/errors"
)

// NewProcessCmd creates the process command
func NewProcessCmd(o *opts.RootOpts) *cobra.Command {
	var (
		noInteractive bool
		outputPath    string
		extract       bool
	)

	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Run the cleanup pipeline over one file",
		Long: `Process runs every enabled stage over the given file:
1. Automatic stages (replacements, periods, pagination, roman numerals)
2. Interactive stages, one decision at a time
3. Saves the result and persists any permanent decisions`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "process").Logger().WithContext(ctx)

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}

			inputPath := resolveInput(args[0], cfg.DefaultDir)
			text, err := fileio.Load(ctx, inputPath, extract)
			if err != nil {
				return errors.Errorf("loading input: %w", err)
			}

			var pres stage.Presenter
			if !noInteractive {
				pres = tui.NewPresenter()
			}

			if outputPath == "" {
				outputPath = inputPath
			}

			o.Console.Header("processing book text")
			o.Console.StartFileRun(ctx, log.FileRun{
				Path:   inputPath,
				Output: outputPath,
				Format: strings.TrimPrefix(filepath.Ext(inputPath), "."),
			})

			var sinks []audit.Sink
			if logger := zerolog.Ctx(ctx); logger.GetLevel() <= zerolog.DebugLevel {
				sinks = append(sinks, audit.NewZerologSink(logger))
			}

			res, err := pipeline.New(cfg, pres).Run(ctx, text, inputPath, sinks...)
			if err != nil {
				if res != nil && res.Abandoned {
					o.Console.Warning("run abandoned, input left untouched")
					return nil
				}
				return errors.Errorf("running pipeline: %w", err)
			}

			logStages(ctx, o.Console, res)
			o.Console.EndFileRun(ctx)

			if err := fileio.Save(ctx, outputPath, res.Text); err != nil {
				return errors.Errorf("saving output: %w", err)
			}

			if res.Dirty {
				if err := config.Persist(ctx, o.ConfigPath, cfg); err != nil {
					return errors.Errorf("persisting rule sets: %w", err)
				}
				o.Console.Info("rule sets updated with permanent decisions")
			}

			o.Console.Summary(res.Summary)
			o.Console.Successf("saved %s", outputPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noInteractive, "no-interactive", false, "run automatic stages only")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path (default: overwrite input)")
	cmd.Flags().BoolVar(&extract, "extract", false, "reduce html input to plain text before processing")

	return cmd
}

// resolveInput falls back to the configured default directory when the
// path does not exist relative to the working directory.
func resolveInput(path, defaultDir string) string {
	if defaultDir == "" || filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	candidate := filepath.Join(defaultDir, path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return path
}

// logStages prints one console line per completed stage, with counts
// aggregated from the audit trail.
func logStages(ctx context.Context, console *log.Logger, res *pipeline.Result) {
	byStage := map[string]*log.StageOperation{}
	for _, rec := range res.Records {
		op, ok := byStage[rec.Stage]
		if !ok {
			op = &log.StageOperation{Stage: rec.Stage}
			byStage[rec.Stage] = op
		}
		switch rec.Action {
		case audit.ActionApplied:
			op.Applied++
		case audit.ActionRemoved:
			op.Removed++
		case audit.ActionSkipped, audit.ActionIgnored:
			op.Skipped++
		}
	}

	for _, name := range res.StagesRun {
		op, ok := byStage[name]
		if !ok {
			op = &log.StageOperation{Stage: name}
		}
		switch name {
		case stage.NameChoices, stage.NameAllCaps, stage.NameNumbered:
			op.Interactive = true
		}
		console.LogStage(ctx, *op)
	}
}
