// Package types defines the dictionary entities (characters and variants),
// the integrity report model, the Snapshot and Dictionary interfaces, and the
// standard error values shared by the engine, the storage backend and the CLI.
package types
