package commands

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/bookmend/cmd/bookmend/opts"
	"github.com/walteh/bookmend/pkg/config"
	"github.com/walteh/bookmend/pkg/fileio"
	"github.com/walteh/bookmend/pkg/pipeline"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// NewBatchCmd creates the batch command
func NewBatchCmd(o *opts.RootOpts) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch <glob>",
		Short: "Run the automatic stages over many files",
		Long: `Batch runs the automatic stages concurrently over every file the
glob matches. Interactive stages are excluded: nobody can answer
prompts for dozens of files at once. Replacement rules with a file
filter apply only to matching files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "batch").Logger().WithContext(ctx)

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}

			files, err := doublestar.FilepathGlob(args[0])
			if err != nil {
				return errors.Errorf("expanding glob %q: %w", args[0], err)
			}
			if len(files) == 0 {
				o.Console.Warningf("no files match %s", args[0])
				return nil
			}

			o.Console.Header("batch processing")
			o.Console.Infof("%d files matched", len(files))

			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(concurrency)

			for _, file := range files {
				file := file
				g.Go(func() error {
					text, err := fileio.Load(gctx, file, false)
					if err != nil {
						return errors.Errorf("loading %s: %w", file, err)
					}

					// each file gets its own buffer and its own filtered
					// rule set; single-owner mutation is preserved
					fileCfg := filterForFile(cfg, file)
					res, err := pipeline.New(fileCfg, nil).Run(gctx, text, file)
					if err != nil {
						return errors.Errorf("processing %s: %w", file, err)
					}

					if res.Text != text {
						if err := fileio.Save(gctx, file, res.Text); err != nil {
							return errors.Errorf("saving %s: %w", file, err)
						}
						o.Console.Successf("updated %s", file)
					} else {
						o.Console.Infof("no changes in %s", file)
					}
					return nil
				})
			}

			if err := g.Wait(); err != nil {
				return errors.Errorf("batch run: %w", err)
			}
			o.Console.Success("batch complete")
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "maximum files processed at once")

	return cmd
}

// filterForFile drops replacement rules whose file filter does not
// match the given path.
func filterForFile(cfg *config.Config, file string) *config.Config {
	out := *cfg
	out.Replacements = nil
	for _, rule := range cfg.Replacements {
		if rule.FileFilterGlob != "" {
			ok, err := doublestar.PathMatch(rule.FileFilterGlob, file)
			if err != nil || !ok {
				continue
			}
		}
		out.Replacements = append(out.Replacements, rule)
	}
	return &out
}
