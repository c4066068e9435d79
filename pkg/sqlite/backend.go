// Package sqlite exposes the SQLite dictionary backend to programs outside
// this module while keeping the implementation internal.
package sqlite

import (
	"log/slog"

	"github.com/pmachovec/asciipinyin/internal/sqlite"
	"github.com/pmachovec/asciipinyin/pkg/types"
)

// NewBackend creates a detached SQLite dictionary. A nil logger discards
// log output.
//
// Example:
//
//	dict := sqlite.NewBackend(nil)
//	err := dict.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: "/var/lib/asciipinyin",
//	})
//	defer dict.Detach()
func NewBackend(logger *slog.Logger) types.Dictionary {
	var opts []sqlite.Option
	if logger != nil {
		opts = append(opts, sqlite.WithLogger(logger))
	}
	return sqlite.NewBackend(opts...)
}
