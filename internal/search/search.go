// Package search implements substring search across entries: the first
// message containing the query, returning its containing block and a
// selection whose region is the match's byte range (spec.md section 4.6).
package search

import (
	"strings"

	"github.com/welschmorgan/nbuild/internal/block"
	"github.com/welschmorgan/nbuild/internal/entry"
	"github.com/welschmorgan/nbuild/internal/selection"
)

// Result bundles the block a match was found in and the selection
// pointing at it.
type Result struct {
	Block     block.Block
	Selection selection.Selection
}

// Find scans entries in order for the first message containing query as
// a substring. Linear in the scanned prefix; no index is maintained
// (spec.md section 4.6). Returns ok=false if no entry matches, or if
// the first matching entry isn't covered by any block in ix (ix has no
// markers, or the entry precedes the first marker); later matches are
// not tried in that case.
func Find(entries []entry.Entry, ix *block.Index, query string) (Result, bool) {
	if query == "" {
		return Result{}, false
	}
	for _, e := range entries {
		at := strings.Index(e.Message, query)
		if at < 0 {
			continue
		}
		b, ok := ix.RangeAt(e.ID, len(entries))
		if !ok {
			return Result{}, false
		}
		region := selection.Region{Start: at, End: at + len(query)}
		sel := selection.Selection{
			Set:      true,
			MarkerID: b.MarkerID,
			EntryID:  e.ID,
			Region:   &region,
		}
		return Result{Block: b, Selection: sel}, true
	}
	return Result{}, false
}
