package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pmachovec/asciipinyin/pkg/sqlite"
	"github.com/pmachovec/asciipinyin/pkg/types"
)

// withDictionary attaches the configured backend, runs fn and detaches.
// A detach failure is reported only when fn succeeded.
func (a *app) withDictionary(cmd *cobra.Command, fn func(ctx context.Context, dict types.Dictionary) error) error {
	cfg, err := a.dictionaryConfig()
	if err != nil {
		return userError(err)
	}

	dict := sqlite.NewBackend(a.logger)
	if err := dict.Attach(cfg); err != nil {
		return sysError(fmt.Errorf("attach dictionary: %w", err))
	}

	err = fn(cmd.Context(), dict)
	if derr := dict.Detach(); derr != nil && err == nil {
		err = sysError(fmt.Errorf("detach dictionary: %w", derr))
	}
	return err
}

// characterTable and variantTable fetch a table from an attached dictionary.
func characterTable(dict types.Dictionary) (types.CharacterTable, error) {
	t, err := dict.Characters()
	if err != nil {
		return nil, sysError(err)
	}
	return t, nil
}

func variantTable(dict types.Dictionary) (types.VariantTable, error) {
	t, err := dict.Variants()
	if err != nil {
		return nil, sysError(err)
	}
	return t, nil
}
