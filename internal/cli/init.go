package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pmachovec/asciipinyin/internal/seed"
	"github.com/pmachovec/asciipinyin/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	var sample bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize dictionary storage",
		Long: `Init creates the configuration and data directories, writes a default
config.yaml if none exists and initializes the dictionary files. With
--sample a small set of characters and variants is imported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDictionary(cmd, func(ctx context.Context, dict types.Dictionary) error {
				if sample {
					if err := a.importSample(ctx, cmd, dict); err != nil {
						return err
					}
				}
				cfg, err := a.dictionaryConfig()
				if err != nil {
					return userError(err)
				}
				if !a.flags.jsonMode {
					fmt.Fprintf(cmd.OutOrStdout(), "Dictionary initialized in %s\n", cfg.DataDir)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&sample, "sample", false, "import the built-in sample characters")
	return cmd
}

// importSample seeds the built-in sample into an empty dictionary. A
// dictionary that already holds characters is left alone.
func (a *app) importSample(ctx context.Context, cmd *cobra.Command, dict types.Dictionary) error {
	chars, err := characterTable(dict)
	if err != nil {
		return err
	}
	existing, err := chars.Fetch(ctx, types.Filter{"limit": 1})
	if err != nil {
		return sysError(err)
	}
	if len(existing) > 0 {
		a.logger.Info("dictionary not empty, sample skipped")
		return nil
	}

	doc, err := seed.Sample()
	if err != nil {
		return sysError(err)
	}
	return a.applySeed(ctx, cmd, dict, doc)
}
