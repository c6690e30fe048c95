package prepare

import (
	"strings"

	"github.com/welschmorgan/nbuild/internal/entry"
	"github.com/welschmorgan/nbuild/internal/rule"
	"github.com/welschmorgan/nbuild/internal/tag"
)

// classified is the per-entry result of running one entry through the
// active rule's declared markers (spec.md section 4.3 step 3).
type classified struct {
	Entry       entry.Entry
	MarginText  string // the matched marker text, empty if nothing matched
	Matched     bool
	Remainder   string // message with the matched margin stripped, or the full message
	DisplayLine string
	Location    *tag.Loc
	LocationErr error
}

// classifyOne runs every declared marker of r against e.Message in
// declaration order, attaching a marker tag on the first match per
// kind (spec.md section 4.3 step 3). The first marker match overall
// becomes the display margin.
func classifyOne(r rule.Rule, e entry.Entry) classified {
	out := e
	firstEnd := -1
	marginText := ""
	matched := false

	for _, m := range r.Markers {
		idx := m.Pattern.FindStringIndex(out.Message)
		if idx == nil {
			continue
		}
		if out.Tags.Has(m.Kind) {
			continue // first match per kind wins; already tagged
		}
		out.Tags.Put(tag.NewMarker(m.Kind, tag.Span{Start: idx[0], End: idx[1]}, out.Message[idx[0]:idx[1]]))
		if !matched {
			matched = true
			marginText = out.Message[idx[0]:idx[1]]
			firstEnd = idx[1]
		}
	}

	result := classified{Entry: out, MarginText: marginText, Matched: matched}
	if matched {
		result.Remainder = strings.TrimPrefix(out.Message[firstEnd:], " ")
		return result
	}
	result.Remainder = out.Message

	trimmed := strings.TrimSpace(out.Message)
	if entry.HasLocationPrefix(trimmed) {
		rest := strings.TrimPrefix(trimmed, "-->")
		loc, err := entry.ParseLocation(rest)
		out.Tags.Put(tag.NewLocation(loc))
		result.Entry = out
		result.Location = &loc
		result.LocationErr = err
	}
	return result
}

// classifyChunk classifies every entry in chunk, then formats each
// display line using the widest matched-marker width seen in the chunk
// for the margin of unmatched entries (spec.md section 4.3 step 3,
// "space-padded blank of the widest marker width seen in this chunk").
func classifyChunk(r rule.Rule, chunk []entry.Entry) []classified {
	results := make([]classified, len(chunk))
	maxWidth := 0
	for i, e := range chunk {
		results[i] = classifyOne(r, e)
		if results[i].Matched && len(results[i].MarginText) > maxWidth {
			maxWidth = len(results[i].MarginText)
		}
	}
	for i := range results {
		res := &results[i]
		margin := res.MarginText
		if !res.Matched {
			margin = strings.Repeat(" ", maxWidth)
		}
		displayLine := margin
		if margin != "" {
			displayLine += " "
		}
		displayLine += res.Remainder
		res.DisplayLine = displayLine
	}
	return results
}
