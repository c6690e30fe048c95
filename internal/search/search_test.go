package search

import (
	"testing"

	"github.com/welschmorgan/nbuild/internal/block"
	"github.com/welschmorgan/nbuild/internal/entry"
	"github.com/welschmorgan/nbuild/internal/tag"
)

func TestFindReturnsBlockAndRegion(t *testing.T) {
	lines := []string{
		"warning: something",
		"   |",
		"   |",
		"   |",
		"   |",
		"   |",
		"thread 'main' panicked at src/main.rs:10",
	}
	entries := make([]entry.Entry, len(lines))
	for i, l := range lines {
		entries[i] = entry.Entry{ID: i, Message: l}
	}
	entries[1].Tags.Put(tag.NewMarker(tag.Error, tag.Span{}, ""))

	ix := block.Build([]block.MarkerRef{
		{EntryID: 1, Kind: tag.Error},
	})

	res, ok := Find(entries, ix, "panic")
	if !ok {
		t.Fatalf("expected a match")
	}
	if res.Selection.EntryID != 6 {
		t.Fatalf("expected match at entry 6, got %d", res.Selection.EntryID)
	}
	if res.Selection.Region.Start != 14 || res.Selection.Region.End != 19 {
		t.Fatalf("expected region 14..19, got %+v", res.Selection.Region)
	}
	if !res.Block.Contains(6) {
		t.Fatalf("expected entry 6 to be inside the returned block")
	}
}

func TestFindNoMatch(t *testing.T) {
	entries := []entry.Entry{{ID: 0, Message: "hello"}}
	ix := block.Build([]block.MarkerRef{{EntryID: 0, Kind: tag.Error}})
	if _, ok := Find(entries, ix, "missing"); ok {
		t.Fatalf("expected no match")
	}
}

func TestFindEmptyQuery(t *testing.T) {
	entries := []entry.Entry{{ID: 0, Message: "hello"}}
	ix := block.Build([]block.MarkerRef{{EntryID: 0, Kind: tag.Error}})
	if _, ok := Find(entries, ix, ""); ok {
		t.Fatalf("expected empty query to never match")
	}
}
