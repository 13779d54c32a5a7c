package commands

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/bookmend/cmd/bookmend/opts"
	"github.com/walteh/bookmend/pkg/config"
)

// NewRulesCmd creates the rules command
func NewRulesCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the parsed rule sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "rules").Logger().WithContext(ctx)

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}

			o.Console.Header("rules from " + o.ConfigPath)

			stages := cfg.Stages
			if len(stages) == 0 {
				stages = config.DefaultStageOrder
			}
			o.Console.Infof("stage order: %s", strings.Join(stages, ", "))

			for _, rule := range cfg.Replacements {
				suffix := ""
				if rule.FileFilterGlob != "" {
					suffix = " (files: " + rule.FileFilterGlob + ")"
				}
				o.Console.Infof("replace %q -> %q%s", rule.Pattern, rule.Replacement, suffix)
			}
			for _, choice := range cfg.Choices {
				o.Console.Infof("choice %q: %s", choice.Word, strings.Join(choice.Options, ", "))
			}
			if len(cfg.Abbreviations) > 0 {
				o.Console.Infof("abbreviations: %s", strings.Join(cfg.Abbreviations, ", "))
			}
			if len(cfg.CapsIgnore) > 0 {
				o.Console.Infof("caps ignore: %s", strings.Join(cfg.CapsIgnore, ", "))
			}
			if len(cfg.CapsAutoLower) > 0 {
				o.Console.Infof("caps auto-lowercase: %s", strings.Join(cfg.CapsAutoLower, ", "))
			}
			if len(cfg.RomanIgnore) > 0 {
				o.Console.Infof("roman ignore: %s", strings.Join(cfg.RomanIgnore, ", "))
			}
			if cfg.DefaultDir != "" {
				o.Console.Infof("default directory: %s", cfg.DefaultDir)
			}
			return nil
		},
	}

	return cmd
}
