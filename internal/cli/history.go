package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pmachovec/asciipinyin/pkg/types"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List committed mutations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return userError(fmt.Errorf("--limit must not be negative"))
			}
			return a.withDictionary(cmd, func(ctx context.Context, dict types.Dictionary) error {
				entries, err := dict.Journal(ctx, limit)
				if err != nil {
					return sysError(err)
				}
				return a.printJournal(cmd, entries)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries, 0 for all")
	return cmd
}

func (a *app) printJournal(cmd *cobra.Command, entries []types.JournalEntry) error {
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		if entries == nil {
			entries = []types.JournalEntry{}
		}
		return writeJSON(out, entries)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tOPERATION\tRECORD")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.CreatedAt.Local().Format(time.DateTime), e.Operation, e.Record)
	}
	return w.Flush()
}
