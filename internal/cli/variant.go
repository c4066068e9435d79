package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pmachovec/asciipinyin/pkg/types"
)

func newVariantCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "variant",
		Short: "Manage variants of base characters",
	}
	cmd.AddCommand(
		newVariantAddCmd(a),
		newVariantDeleteCmd(a),
		newVariantListCmd(a),
	)
	return cmd
}

type variantFlags struct {
	glyph    string
	original string
	strokes  int
}

func (f *variantFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.glyph, "glyph", "", "variant glyph (required)")
	fs.StringVar(&f.original, "original", "", "key of the base character, glyph/pinyin/tone (required)")
	fs.IntVar(&f.strokes, "strokes", 0, "stroke count (required)")
	for _, name := range []string{"glyph", "original", "strokes"} {
		_ = cmd.MarkFlagRequired(name)
	}
}

func (f *variantFlags) variant() (types.Variant, error) {
	original, err := types.ParseCharacterKey(f.original)
	if err != nil {
		return types.Variant{}, fmt.Errorf("--original: %w", err)
	}
	return types.NewVariant(types.Variant{
		Glyph:          f.glyph,
		OriginalGlyph:  original.Glyph,
		OriginalPinyin: original.Pinyin,
		OriginalTone:   original.Tone,
		Strokes:        f.strokes,
	})
}

func newVariantAddCmd(a *app) *cobra.Command {
	var f variantFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a variant",
		Long: `Add creates a variant of an existing base character.

Example:
  asciipinyin variant add --glyph ⻗ --original 雨/yu/3 --strokes 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := f.variant()
			if err != nil {
				return userError(err)
			}
			return a.withDictionary(cmd, func(ctx context.Context, dict types.Dictionary) error {
				table, err := variantTable(dict)
				if err != nil {
					return err
				}
				report, err := table.Create(ctx, v)
				if err != nil {
					return classify(err)
				}
				if !report.Empty() {
					return a.printRejection(cmd, report)
				}
				return a.printMutation(cmd, types.JournalCreate, types.VariantConflict(v))
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newVariantDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <glyph/original-glyph/pinyin/tone>",
		Short: "Delete a variant",
		Long:  "Delete removes a variant unless characters are written with it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := types.ParseVariantKey(args[0])
			if err != nil {
				return userError(err)
			}
			return a.withDictionary(cmd, func(ctx context.Context, dict types.Dictionary) error {
				table, err := variantTable(dict)
				if err != nil {
					return err
				}
				stored, _ := table.Get(ctx, key)
				report, err := table.Delete(ctx, key)
				if err != nil {
					return classify(err)
				}
				if !report.Empty() {
					return a.printRejection(cmd, report)
				}
				return a.printMutation(cmd, types.JournalDelete, types.VariantConflict(stored))
			})
		},
	}
}

func newVariantListCmd(a *app) *cobra.Command {
	var (
		glyph, original string
		limit, offset   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := types.Filter{}
			fs := cmd.Flags()
			if fs.Changed("glyph") {
				filter["glyph"] = glyph
			}
			if original != "" {
				key, err := types.ParseCharacterKey(original)
				if err != nil {
					return userError(fmt.Errorf("--original: %w", err))
				}
				filter["original_glyph"] = key.Glyph
				filter["original_pinyin"] = key.Pinyin
				filter["original_tone"] = key.Tone
			}
			if fs.Changed("limit") {
				filter["limit"] = limit
			}
			if fs.Changed("offset") {
				filter["offset"] = offset
			}

			return a.withDictionary(cmd, func(ctx context.Context, dict types.Dictionary) error {
				table, err := variantTable(dict)
				if err != nil {
					return err
				}
				variants, err := table.Fetch(ctx, filter)
				if err != nil {
					return classify(err)
				}
				return a.printVariants(cmd, variants)
			})
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&glyph, "glyph", "", "only this variant glyph")
	fs.StringVar(&original, "original", "", "only variants of this base character key")
	fs.IntVar(&limit, "limit", 0, "maximum number of variants")
	fs.IntVar(&offset, "offset", 0, "number of variants to skip")
	return cmd
}

func (a *app) printVariants(cmd *cobra.Command, variants []types.Variant) error {
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		if variants == nil {
			variants = []types.Variant{}
		}
		return writeJSON(out, variants)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GLYPH\tORIGINAL\tSTROKES")
	for _, v := range variants {
		fmt.Fprintf(w, "%s\t%s\t%d\n", v.Glyph, v.OriginalKey(), v.Strokes)
	}
	return w.Flush()
}
