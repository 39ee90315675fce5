// Package suggest is the core, holding the title and location prefix indexes and merging their matches into one suggestion list.
package suggest

import "context"

// ICompleter defines what the CLI and server need from a suggestion engine
type ICompleter interface {
	// Suggest returns merged, origin-tagged suggestions for a prefix
	Suggest(prefix string) []Suggestion

	// Query returns the title and location matches separately
	Query(prefix string) Matches

	// RebuildFrom replaces the dataset with a fresh fetch from src
	RebuildFrom(ctx context.Context, src Source) error

	// Stats returns statistics about the published snapshot
	Stats() map[string]int
}

// Source supplies the records an index is built from.
type Source interface {
	Fetch(ctx context.Context) ([]Record, error)
}

// Record is one row of the dataset. Either field may be empty.
type Record struct {
	Title    string `json:"title" msgpack:"title"`
	Location string `json:"locations" msgpack:"locations"`
}
