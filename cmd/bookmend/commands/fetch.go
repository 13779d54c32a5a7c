package commands

import (
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/bookmend/cmd/bookmend/opts"
	"github.com/walteh/bookmend/pkg/fileio"
	"github.com/walteh/bookmend/pkg/remote"
	"gitlab.com/tozd/go/errors"

	// register the github provider
	_ "github.com/walteh/bookmend/pkg/remote/github"
)

// NewFetchCmd creates the fetch command
func NewFetchCmd(o *opts.RootOpts) *cobra.Command {
	var (
		ref          string
		providerName string
	)

	cmd := &cobra.Command{
		Use:   "fetch <owner/repo> <path>",
		Short: "Download a book text from a hosted repository",
		Long: `Fetch pulls one raw text file from a remote repository into the
configured default directory (or the working directory), ready for
processing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "fetch").Logger().WithContext(ctx)

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}

			provider, err := remote.GetProvider(providerName)
			if err != nil {
				return err
			}

			repo, err := provider.GetRepository(ctx, args[0])
			if err != nil {
				return errors.Errorf("opening repository: %w", err)
			}

			file, err := repo.GetTextFile(ctx, ref, args[1])
			if err != nil {
				return errors.Errorf("fetching %s: %w", args[1], err)
			}

			rc, err := file.GetContent(ctx)
			if err != nil {
				return errors.Errorf("reading content: %w", err)
			}
			defer rc.Close()

			data, err := io.ReadAll(rc)
			if err != nil {
				return errors.Errorf("reading content: %w", err)
			}

			dest := filepath.Join(cfg.DefaultDir, filepath.Base(args[1]))
			if err := fileio.Save(ctx, dest, string(data)); err != nil {
				return errors.Errorf("saving %s: %w", dest, err)
			}

			o.Console.Successf("fetched %s -> %s", file.RawTextPermalink(), dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "branch, tag or commit (default: repository default branch)")
	cmd.Flags().StringVar(&providerName, "provider", "github", "hosting provider")

	return cmd
}
