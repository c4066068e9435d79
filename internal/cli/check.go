package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pmachovec/asciipinyin/internal/integrity"
	"github.com/pmachovec/asciipinyin/pkg/types"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <operation> <record>",
		Short: "Dry-run a mutation against the stored dictionary",
		Long: `Check runs the integrity rules for one mutation without changing anything
and prints the report. It exits with status 1 when the mutation would be
rejected.

Operations: create-character, create-variant, delete-character, delete-variant.
Creates take the record as JSON; deletes take its key.

Examples:
  asciipinyin check create-variant '{"glyph":"⻗","original_glyph":"雨","original_pinyin":"yu","original_tone":3,"strokes":8}'
  asciipinyin check delete-character 雨/yu/3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := integrity.ParseOperation(args[0])
			if err != nil {
				return userError(err)
			}
			candidate, err := parseCandidate(op, args[1])
			if err != nil {
				return userError(err)
			}

			var report types.IntegrityReport
			err = a.withDictionary(cmd, func(ctx context.Context, dict types.Dictionary) error {
				return dict.View(ctx, func(snap types.Snapshot) error {
					var checkErr error
					report, checkErr = integrity.Check(op, candidate, snap)
					return checkErr
				})
			})
			if err != nil {
				return classify(err)
			}
			if !report.Empty() {
				return a.printRejection(cmd, report)
			}
			return a.printReport(cmd, report)
		},
	}
}

// parseCandidate turns the command-line record into the entity Check
// expects: a full record for creates, a key-only record for deletes.
func parseCandidate(op integrity.Operation, arg string) (types.Entity, error) {
	switch op {
	case integrity.CreateCharacter:
		return types.ParseCharacter([]byte(arg))
	case integrity.CreateVariant:
		return types.ParseVariant([]byte(arg))
	case integrity.DeleteCharacter:
		key, err := types.ParseCharacterKey(arg)
		if err != nil {
			return nil, err
		}
		return types.Character{Glyph: key.Glyph, Pinyin: key.Pinyin, Tone: key.Tone}, nil
	case integrity.DeleteVariant:
		key, err := types.ParseVariantKey(arg)
		if err != nil {
			return nil, err
		}
		return types.Variant{
			Glyph:          key.Glyph,
			OriginalGlyph:  key.Original.Glyph,
			OriginalPinyin: key.Original.Pinyin,
			OriginalTone:   key.Original.Tone,
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", integrity.ErrUnknownOperation, op)
}
