package block

import (
	"testing"

	"github.com/welschmorgan/nbuild/internal/tag"
)

func TestRangeAtTwoMarkers(t *testing.T) {
	ix := Build([]MarkerRef{
		{EntryID: 0, Kind: tag.Warning},
		{EntryID: 4, Kind: tag.Error},
	})

	b, ok := ix.RangeAt(1, 7)
	if !ok {
		t.Fatalf("expected a block at entry 1")
	}
	if b.Start != 0 || b.End != 4 {
		t.Fatalf("expected [0,4), got [%d,%d)", b.Start, b.End)
	}

	b, ok = ix.RangeAt(5, 7)
	if !ok {
		t.Fatalf("expected a block at entry 5")
	}
	if b.Start != 4 || b.End != 7 {
		t.Fatalf("expected [4,7), got [%d,%d)", b.Start, b.End)
	}
}

func TestRangeAtNoMarkers(t *testing.T) {
	ix := Build(nil)
	if _, ok := ix.RangeAt(0, 10); ok {
		t.Fatalf("expected no block when there are no markers")
	}
}

func TestRangeAtBeforeFirstMarker(t *testing.T) {
	ix := Build([]MarkerRef{{EntryID: 3, Kind: tag.Error}})
	if _, ok := ix.RangeAt(1, 10); ok {
		t.Fatalf("expected no block for an entry before the first marker")
	}
}

func TestRangeAtLastBlockRunsToTotal(t *testing.T) {
	ix := Build([]MarkerRef{{EntryID: 0, Kind: tag.Error}})
	b, ok := ix.RangeAt(5, 9)
	if !ok {
		t.Fatalf("expected a block")
	}
	if b.Start != 0 || b.End != 9 {
		t.Fatalf("expected [0,9), got [%d,%d)", b.Start, b.End)
	}
}
