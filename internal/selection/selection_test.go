package selection

import (
	"testing"

	"github.com/welschmorgan/nbuild/internal/block"
	"github.com/welschmorgan/nbuild/internal/tag"
)

func markersOf(entryIDs ...int) *block.Index {
	refs := make([]block.MarkerRef, len(entryIDs))
	for i, id := range entryIDs {
		refs[i] = block.MarkerRef{EntryID: id, Kind: tag.Error}
	}
	return block.Build(refs)
}

func TestNextFromEmptySelectsFirst(t *testing.T) {
	m := markersOf(0, 2)
	sel := Next(m, Selection{})
	if !sel.Set || sel.MarkerID != 0 || sel.EntryID != 0 {
		t.Fatalf("expected (0,0), got %+v", sel)
	}
}

func TestNextSaturatesAtLast(t *testing.T) {
	m := markersOf(0, 2)
	sel := Next(m, Selection{})
	sel = Next(m, sel)
	if sel.MarkerID != 1 || sel.EntryID != 2 {
		t.Fatalf("expected (1,2), got %+v", sel)
	}
	sel = Next(m, sel)
	if sel.MarkerID != 1 || sel.EntryID != 2 {
		t.Fatalf("expected saturation at (1,2), got %+v", sel)
	}
}

func TestPreviousFromEmptyTwiceBothSelectFirst(t *testing.T) {
	m := markersOf(0, 2)
	sel := Previous(m, Selection{})
	if !sel.Set || sel.MarkerID != 0 || sel.EntryID != 0 {
		t.Fatalf("expected (0,0), got %+v", sel)
	}
	sel = Previous(m, sel)
	if sel.MarkerID != 0 || sel.EntryID != 0 {
		t.Fatalf("expected (0,0) again, got %+v", sel)
	}
}

func TestSelectFirstIdempotent(t *testing.T) {
	m := markersOf(0, 2, 5)
	a := First(m)
	b := First(m)
	if a != b {
		t.Fatalf("select_first should be idempotent: %+v != %+v", a, b)
	}
}

func TestSelectNoMarkersIsNoop(t *testing.T) {
	m := markersOf()
	if sel := Select(m, 0, nil); sel.Set {
		t.Fatalf("expected no-op selection when there are no markers")
	}
}

func TestSelectClampsOutOfRange(t *testing.T) {
	m := markersOf(0, 2, 5)
	sel := Select(m, 99, nil)
	if sel.MarkerID != 2 || sel.EntryID != 5 {
		t.Fatalf("expected clamp to last marker (2,5), got %+v", sel)
	}
}

func TestFindFirstByKind(t *testing.T) {
	refs := []block.MarkerRef{
		{EntryID: 0, Kind: tag.Warning},
		{EntryID: 3, Kind: tag.Error},
		{EntryID: 6, Kind: tag.Note},
	}
	m := block.Build(refs)
	sel, ok := FindFirst(m, m.KindAt, tag.Error)
	if !ok || sel.MarkerID != 1 || sel.EntryID != 3 {
		t.Fatalf("expected (1,3), got %+v ok=%v", sel, ok)
	}
}
