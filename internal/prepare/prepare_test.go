package prepare

import (
	"context"
	"testing"

	"github.com/welschmorgan/nbuild/internal/entry"
	"github.com/welschmorgan/nbuild/internal/event"
	"github.com/welschmorgan/nbuild/internal/rule"
	"github.com/welschmorgan/nbuild/internal/selection"
	"github.com/welschmorgan/nbuild/internal/tag"
)

func newTestPreparer() (*Preparer, *event.Channels) {
	store := entry.NewStore()
	rules := rule.NewStore()
	p := NewPreparer(store, rules)
	ch := event.NewChannels(16)
	return p, ch
}

// TestPrepareClassifiesWarningBlock exercises a single warning followed
// by a "-->" location line and a blank line, matching the "warning
// block" shape: the warning entry gets a Warning tag, the location line
// gets a Location tag, and the warning opens a block that runs to the
// next marker (or end of the sequence).
func TestPrepareClassifiesWarningBlock(t *testing.T) {
	p, ch := newTestPreparer()
	ch.Entries <- []entry.Entry{
		entry.New("warning: unused variable: `x`", entry.Stderr),
		entry.New("  --> src/main.rs:3:9", entry.Stderr),
		entry.New("", entry.Stderr),
	}

	var sel selection.Selection
	didWork, err := p.Prepare(context.Background(), ch, &sel)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if !didWork {
		t.Fatalf("expected didWork=true")
	}

	if p.Store.Cursor() != 3 {
		t.Fatalf("expected cursor=3, got %d", p.Store.Cursor())
	}

	first := p.Store.At(0)
	if !first.Tags.Has(tag.Warning) {
		t.Fatalf("expected first entry to carry a Warning tag")
	}
	if len(p.WarningIDs) != 1 || p.WarningIDs[0] != 0 {
		t.Fatalf("expected WarningIDs=[0], got %v", p.WarningIDs)
	}

	second := p.Store.At(1)
	loc, ok := second.Tags.Get(tag.Location)
	if !ok {
		t.Fatalf("expected second entry to carry a Location tag")
	}
	if loc.Loc.Path != "src/main.rs" {
		t.Fatalf("unexpected location path %q", loc.Loc.Path)
	}

	if p.index.Len() != 1 {
		t.Fatalf("expected a single marker in the index, got %d", p.index.Len())
	}
	b, ok := p.index.RangeAt(2, p.Store.Len())
	if !ok || b.Start != 0 || b.End != 3 {
		t.Fatalf("expected block [0,3) containing entry 2, got %+v ok=%v", b, ok)
	}
}

// TestPrepareAutoSelectsFirstError covers the auto-selection behavior:
// the first error entry becomes the selection when none existed yet,
// and an ErrorAt event is emitted on the events channel.
func TestPrepareAutoSelectsFirstError(t *testing.T) {
	p, ch := newTestPreparer()
	ch.Entries <- []entry.Entry{
		entry.New("note: see also", entry.Stderr),
		entry.New("error: expected `;`", entry.Stderr),
		entry.New("error: mismatched types", entry.Stderr),
	}

	var sel selection.Selection
	if _, err := p.Prepare(context.Background(), ch, &sel); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	if !sel.Set {
		t.Fatalf("expected selection to be set after first error")
	}
	if sel.EntryID != 1 {
		t.Fatalf("expected selection on entry 1 (first error), got %d", sel.EntryID)
	}

	var errAt []int
	for {
		select {
		case ev := <-ch.Events:
			if ev.Kind == event.ErrorAt {
				errAt = append(errAt, ev.EntryID)
				continue
			}
		default:
		}
		break
	}
	if len(errAt) != 2 || errAt[0] != 1 || errAt[1] != 2 {
		t.Fatalf("expected ErrorAt events for entries [1,2], got %v", errAt)
	}

	if len(p.ErrorIDs) != 2 {
		t.Fatalf("expected two aggregated error ids, got %v", p.ErrorIDs)
	}

	// A second Prepare call with nothing new buffered should be a no-op
	// and must not clobber the existing selection.
	prevSel := sel
	didWork, err := p.Prepare(context.Background(), ch, &sel)
	if err != nil {
		t.Fatalf("Prepare (second call): %v", err)
	}
	if didWork {
		t.Fatalf("expected second Prepare call to report no work")
	}
	if sel != prevSel {
		t.Fatalf("expected selection to be unchanged, got %+v", sel)
	}
}
