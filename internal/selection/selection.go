// Package selection implements the Selection state machine: the UI's
// current focus as a marker id, its entry id, and an optional intra-entry
// byte region (spec.md section 4.5). Selection is a value type -- per
// spec.md section 9's explicit design note, it is owned by the UI driver
// and passed by value into Preparer.Prepare as an in-out parameter, never
// placed behind a lock.
package selection

import "github.com/welschmorgan/nbuild/internal/tag"

// Region is a half-open byte range within an entry's message, used to
// highlight search hits.
type Region struct {
	Start int
	End   int
}

// Selection is the triple (marker_id, entry_id, optional region) of
// spec.md section 3. Set reports whether a selection currently exists;
// a zero Selection with Set == false is the "no selection" state.
type Selection struct {
	Set      bool
	MarkerID int
	EntryID  int
	Region   *Region
}

// Markers is the minimal view selection needs of the marker index:
// length and entry-id lookup by marker_id. block.Index already
// satisfies this (see internal/block), passed here as an interface so
// this package doesn't depend on block.
type Markers interface {
	Len() int
	EntryIDAt(markerID int) (int, bool)
}

// clamp returns id restricted to [0, n-1], or 0 if n == 0.
func clamp(id, n int) int {
	if n == 0 {
		return 0
	}
	if id < 0 {
		return 0
	}
	if id >= n {
		return n - 1
	}
	return id
}

// Select clamps markerID to [0, markers.Len()) and sets entry_id to that
// marker's entry id, with the given region. No-op (returns the zero,
// unset Selection) if there are no markers.
func Select(markers Markers, markerID int, region *Region) Selection {
	if markers.Len() == 0 {
		return Selection{}
	}
	id := clamp(markerID, markers.Len())
	entryID, _ := markers.EntryIDAt(id)
	return Selection{Set: true, MarkerID: id, EntryID: entryID, Region: region}
}

// First selects marker 0.
func First(markers Markers) Selection {
	return Select(markers, 0, nil)
}

// Last selects the last marker. Mirrors
// _examples/original_source/src/lib/marker.rs's select(tags.len()),
// which Select's clamp already saturates to markers.Len()-1.
func Last(markers Markers) Selection {
	return Select(markers, markers.Len(), nil)
}

// Next moves the selection one marker forward, saturating at the last
// marker. If cur has no selection, selects marker 0 (spec.md section
// 4.5, "First call with no prior selection selects marker 0").
func Next(markers Markers, cur Selection) Selection {
	if markers.Len() == 0 {
		return Selection{}
	}
	if !cur.Set {
		return First(markers)
	}
	next := cur.MarkerID + 1
	if next >= markers.Len() {
		next = markers.Len() - 1
	}
	return Select(markers, next, nil)
}

// Previous moves the selection one marker backward, saturating at
// marker 0.
func Previous(markers Markers, cur Selection) Selection {
	if markers.Len() == 0 {
		return Selection{}
	}
	if !cur.Set {
		return First(markers)
	}
	prev := cur.MarkerID - 1
	if prev < 0 {
		prev = 0
	}
	return Select(markers, prev, nil)
}

// FindFirst linearly scans the marker index for the first marker of the
// given kind, returning the Selection pointing at it.
func FindFirst(markers Markers, kindAt func(markerID int) (tag.Kind, bool), kind tag.Kind) (Selection, bool) {
	for i := 0; i < markers.Len(); i++ {
		k, ok := kindAt(i)
		if ok && k == kind {
			return Select(markers, i, nil), true
		}
	}
	return Selection{}, false
}

// Clear unsets the selection.
func Clear() Selection {
	return Selection{}
}

// SetSelection directly installs sel, used by search to point inside a block
// (spec.md section 4.5, "set_selection(opt)").
func SetSelection(sel Selection) Selection {
	return sel
}
