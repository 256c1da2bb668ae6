// Package recency holds the single "most recent first" ordering shared by
// session discovery and alias listing.
package recency

import (
	"slices"
	"strings"
	"time"
)

// Item is anything that can be ordered by recency.
type Item interface {
	RecencyTime() time.Time
	RecencyKey() string
}

// Compare orders a before b when a is more recent. Equal timestamps fall back
// to the key in descending lexicographic order so the result is deterministic.
func Compare[T Item](a, b T) int {
	if c := b.RecencyTime().Compare(a.RecencyTime()); c != 0 {
		return c
	}
	return strings.Compare(b.RecencyKey(), a.RecencyKey())
}

// Sort orders items most recent first, in place.
func Sort[T Item](items []T) {
	slices.SortStableFunc(items, Compare[T])
}
