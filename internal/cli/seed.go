package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pmachovec/asciipinyin/internal/i18n"
	"github.com/pmachovec/asciipinyin/internal/seed"
	"github.com/pmachovec/asciipinyin/pkg/types"
)

func newSeedCmd(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "seed <file>",
		Short: "Import characters and variants from a YAML file",
		Long: `Seed creates every record of a YAML document of the form

  characters: [...]
  variants: [...]

in dependency order: base characters, then variants, then derived
characters. Rejected records are reported and skipped. With --dry-run
nothing is written and every record is checked against the stored
dictionary plus the records accepted before it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := seed.LoadFile(args[0])
			if err != nil {
				return userError(err)
			}
			return a.withDictionary(cmd, func(ctx context.Context, dict types.Dictionary) error {
				if dryRun {
					return a.planSeed(ctx, cmd, dict, doc)
				}
				return a.applySeed(ctx, cmd, dict, doc)
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "check the document without writing")
	return cmd
}

func (a *app) planSeed(ctx context.Context, cmd *cobra.Command, dict types.Dictionary, doc seed.Document) error {
	var steps []seed.Step
	err := dict.View(ctx, func(snap types.Snapshot) error {
		steps = seed.Plan(doc, snap)
		return nil
	})
	if err != nil {
		return sysError(err)
	}

	rejected := 0
	for _, s := range steps {
		if !s.Accepted() {
			rejected++
		}
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		if err := writeJSON(out, steps); err != nil {
			return err
		}
	} else {
		for _, s := range steps {
			if err := a.printStep(cmd, s); err != nil {
				return err
			}
		}
		fmt.Fprintf(out, "%d accepted, %d rejected\n", len(steps)-rejected, rejected)
	}
	if rejected > 0 {
		return userError(errReported)
	}
	return nil
}

func (a *app) applySeed(ctx context.Context, cmd *cobra.Command, dict types.Dictionary, doc seed.Document) error {
	summary, err := seed.Apply(ctx, dict, doc)
	if err != nil {
		return classify(err)
	}
	if err := a.printSummary(cmd, summary); err != nil {
		return err
	}
	if len(summary.Rejected) > 0 {
		return userError(errReported)
	}
	return nil
}

func (a *app) printSummary(cmd *cobra.Command, summary seed.Summary) error {
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		if summary.Rejected == nil {
			summary.Rejected = []seed.Step{}
		}
		return writeJSON(out, summary)
	}
	for _, s := range summary.Rejected {
		if err := a.printStep(cmd, s); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "%d created, %d rejected\n", summary.Created, len(summary.Rejected))
	return nil
}

// printStep writes one plan line and, for a rejected step, its report.
func (a *app) printStep(cmd *cobra.Command, s seed.Step) error {
	out := cmd.OutOrStdout()
	status := "ok"
	if !s.Accepted() {
		status = "rejected"
	}
	fmt.Fprintf(out, "%-8s %s %s\n", status, s.Op, s.Record.Entity())
	if s.Accepted() {
		return nil
	}
	if err := i18n.RenderReport(out, a.tag, s.Report); err != nil {
		return sysError(err)
	}
	return nil
}
