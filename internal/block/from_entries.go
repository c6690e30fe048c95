package block

import "github.com/welschmorgan/nbuild/internal/entry"

// FromEntries scans the full entry sequence and builds the marker index:
// one (entry_id, kind) pair per entry carrying a marker tag, in entry
// order (spec.md section 3, "Marker Index").
func FromEntries(entries []entry.Entry) *Index {
	var markers []MarkerRef
	for _, e := range entries {
		if m, ok := e.Tags.FirstMarker(); ok {
			markers = append(markers, MarkerRef{EntryID: e.ID, Kind: m.Kind})
		}
	}
	return Build(markers)
}
