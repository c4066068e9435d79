package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pmachovec/asciipinyin/pkg/types"
)

func newCharacterCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "character",
		Aliases: []string{"char"},
		Short:   "Manage characters",
	}
	cmd.AddCommand(
		newCharacterAddCmd(a),
		newCharacterDeleteCmd(a),
		newCharacterGetCmd(a),
		newCharacterListCmd(a),
	)
	return cmd
}

// characterFlags are the fields of a character given on the command line.
type characterFlags struct {
	glyph          string
	pinyin         string
	tone           int
	ipa            string
	strokes        int
	radical        string
	radicalVariant string
}

func (f *characterFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.glyph, "glyph", "", "character glyph (required)")
	fs.StringVar(&f.pinyin, "pinyin", "", "ASCII pinyin without tone marks (required)")
	fs.IntVar(&f.tone, "tone", 0, "tone 0-4 (required)")
	fs.StringVar(&f.ipa, "ipa", "", "IPA transcription (required)")
	fs.IntVar(&f.strokes, "strokes", 0, "stroke count (required)")
	fs.StringVar(&f.radical, "radical", "", "radical key glyph/pinyin/tone, omitted for base characters")
	fs.StringVar(&f.radicalVariant, "radical-variant", "", "variant glyph of the radical the character is written with")
	for _, name := range []string{"glyph", "pinyin", "tone", "ipa", "strokes"} {
		_ = cmd.MarkFlagRequired(name)
	}
}

func (f *characterFlags) character() (types.Character, error) {
	c := types.Character{
		Glyph:          f.glyph,
		Pinyin:         f.pinyin,
		Tone:           f.tone,
		IPA:            f.ipa,
		Strokes:        f.strokes,
		RadicalVariant: f.radicalVariant,
	}
	if f.radical != "" {
		key, err := types.ParseCharacterKey(f.radical)
		if err != nil {
			return types.Character{}, fmt.Errorf("--radical: %w", err)
		}
		c = c.WithRadical(key)
	}
	return types.NewCharacter(c)
}

func newCharacterAddCmd(a *app) *cobra.Command {
	var f characterFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a character",
		Long: `Add creates a character after checking it against the stored dictionary.

Examples:
  asciipinyin character add --glyph 雨 --pinyin yu --tone 3 --ipa y --strokes 8
  asciipinyin character add --glyph 零 --pinyin ling --tone 2 --ipa liŋ --strokes 13 \
      --radical 雨/yu/3 --radical-variant ⻗`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.character()
			if err != nil {
				return userError(err)
			}
			return a.withDictionary(cmd, func(ctx context.Context, dict types.Dictionary) error {
				table, err := characterTable(dict)
				if err != nil {
					return err
				}
				report, err := table.Create(ctx, c)
				if err != nil {
					return classify(err)
				}
				if !report.Empty() {
					return a.printRejection(cmd, report)
				}
				return a.printMutation(cmd, types.JournalCreate, types.CharacterConflict(c))
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newCharacterDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <glyph/pinyin/tone>",
		Short: "Delete a character",
		Long: `Delete removes a character unless it is the radical of other characters
or the original of variants.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := types.ParseCharacterKey(args[0])
			if err != nil {
				return userError(err)
			}
			return a.withDictionary(cmd, func(ctx context.Context, dict types.Dictionary) error {
				table, err := characterTable(dict)
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
				return a.printMutation(cmd, types.JournalDelete, types.CharacterConflict(stored))
			})
		},
	}
}

func newCharacterGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <glyph/pinyin/tone>",
		Short: "Show a character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := types.ParseCharacterKey(args[0])
			if err != nil {
				return userError(err)
			}
			return a.withDictionary(cmd, func(ctx context.Context, dict types.Dictionary) error {
				table, err := characterTable(dict)
				if err != nil {
					return err
				}
				c, err := table.Get(ctx, key)
				if err != nil {
					return classify(err)
				}
				return a.printCharacters(cmd, []types.Character{c}, false)
			})
		},
	}
}

func newCharacterListCmd(a *app) *cobra.Command {
	var (
		glyph, pinyin, radical string
		tone, limit, offset    int
		base, derived          bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List characters",
		Long: `List prints the stored characters ordered by key.

Examples:
  asciipinyin character list --base
  asciipinyin character list --radical 雨/yu/3 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if base && derived {
				return userError(fmt.Errorf("--base and --derived are mutually exclusive"))
			}
			filter := types.Filter{}
			fs := cmd.Flags()
			if fs.Changed("glyph") {
				filter["glyph"] = glyph
			}
			if fs.Changed("pinyin") {
				filter["pinyin"] = pinyin
			}
			if fs.Changed("tone") {
				filter["tone"] = tone
			}
			if base {
				filter["base"] = true
			}
			if derived {
				filter["base"] = false
			}
			if radical != "" {
				key, err := types.ParseCharacterKey(radical)
				if err != nil {
					return userError(fmt.Errorf("--radical: %w", err))
				}
				filter["radical_glyph"] = key.Glyph
				filter["radical_pinyin"] = key.Pinyin
				filter["radical_tone"] = key.Tone
			}
			if fs.Changed("limit") {
				filter["limit"] = limit
			}
			if fs.Changed("offset") {
				filter["offset"] = offset
			}

			return a.withDictionary(cmd, func(ctx context.Context, dict types.Dictionary) error {
				table, err := characterTable(dict)
				if err != nil {
					return err
				}
				chars, err := table.Fetch(ctx, filter)
				if err != nil {
					return classify(err)
				}
				return a.printCharacters(cmd, chars, true)
			})
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&glyph, "glyph", "", "only this glyph")
	fs.StringVar(&pinyin, "pinyin", "", "only this pinyin")
	fs.IntVar(&tone, "tone", 0, "only this tone")
	fs.BoolVar(&base, "base", false, "only base characters")
	fs.BoolVar(&derived, "derived", false, "only characters built from a radical")
	fs.StringVar(&radical, "radical", "", "only characters built from this radical key")
	fs.IntVar(&limit, "limit", 0, "maximum number of characters")
	fs.IntVar(&offset, "offset", 0, "number of characters to skip")
	return cmd
}

// printCharacters writes chars as JSON or as a table. A single record in
// JSON mode is written as an object unless asList is set.
func (a *app) printCharacters(cmd *cobra.Command, chars []types.Character, asList bool) error {
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		if !asList && len(chars) == 1 {
			return writeJSON(out, chars[0])
		}
		if chars == nil {
			chars = []types.Character{}
		}
		return writeJSON(out, chars)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tIPA\tSTROKES\tRADICAL\tVARIANT")
	for _, c := range chars {
		radical := "-"
		if key, ok := c.RadicalKey(); ok {
			radical = key.String()
		}
		variant := c.RadicalVariant
		if variant == "" {
			variant = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.Key(), c.IPA, strconv.Itoa(c.Strokes), radical, variant)
	}
	return w.Flush()
}
