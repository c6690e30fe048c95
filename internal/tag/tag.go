// Package tag implements the classification metadata attached to entries:
// marker tags (Error/Warning/Note with a captured span), location tags,
// and the hidden-display tag. See spec.md section 3 ("Tag").
package tag

import "fmt"

// Kind enumerates the tag variants an entry can carry. An entry holds at
// most one tag per Kind; a later classification of the same Kind
// overwrites the earlier one (spec.md section 3, "Tag").
type Kind int

const (
	Error Kind = iota
	Warning
	Note
	Location
	Hidden
	kindCount
)

func (k Kind) String() string {
	switch k {
	case Error:
		return "Error"
	case Warning:
		return "Warning"
	case Note:
		return "Note"
	case Location:
		return "Location"
	case Hidden:
		return "Hidden"
	default:
		return "Unknown"
	}
}

// IsMarker reports whether k is one of the diagnostic marker kinds
// (Error, Warning, Note) rather than Location or Hidden.
func (k Kind) IsMarker() bool {
	return k == Error || k == Warning || k == Note
}

// Span is a half-open byte range within an entry's message.
type Span struct {
	Start int
	End   int
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Captured is the rule-discovered result of a declared marker matching a
// line: the byte range and the literal matched text.
type Captured struct {
	Range Span
	Text  string
}

// Loc is a source-file location: path plus optional 1-based line/column.
type Loc struct {
	Path   string
	Line   *int
	Column *int
}

func (l Loc) String() string {
	if l.Line == nil {
		return l.Path
	}
	if l.Column == nil {
		return fmt.Sprintf("%s:%d", l.Path, *l.Line)
	}
	return fmt.Sprintf("%s:%d:%d", l.Path, *l.Line, *l.Column)
}

// Tag is attached metadata on an entry. Exactly one of Captured/Loc is
// meaningful, selected by Kind (Hidden carries neither).
type Tag struct {
	Kind     Kind
	Captured Captured
	Loc      Loc
}

// NewMarker builds a marker tag of the given kind.
func NewMarker(kind Kind, span Span, text string) Tag {
	return Tag{Kind: kind, Captured: Captured{Range: span, Text: text}}
}

// NewLocation builds a Location tag.
func NewLocation(loc Loc) Tag {
	return Tag{Kind: Location, Loc: loc}
}

// NewHidden builds a Hidden tag.
func NewHidden() Tag {
	return Tag{Kind: Hidden}
}

// Set holds at most one Tag per Kind, overwritten on repeated writes of
// the same kind (spec.md section 3 equality/ordering rule).
type Set struct {
	tags [kindCount]*Tag
}

// Put stores t, overwriting any existing tag of the same kind.
func (s *Set) Put(t Tag) {
	cp := t
	s.tags[t.Kind] = &cp
}

// Get returns the tag of the given kind, if present.
func (s *Set) Get(k Kind) (Tag, bool) {
	t := s.tags[k]
	if t == nil {
		return Tag{}, false
	}
	return *t, true
}

// Has reports whether a tag of kind k is present.
func (s *Set) Has(k Kind) bool {
	return s.tags[k] != nil
}

// FirstMarker returns the entry's first marker tag, checking Error,
// then Warning, then Note, if any. An entry can carry one marker tag
// per kind, so more than one may be present.
func (s *Set) FirstMarker() (Tag, bool) {
	for _, k := range []Kind{Error, Warning, Note} {
		if t := s.tags[k]; t != nil {
			return *t, true
		}
	}
	return Tag{}, false
}

// List returns all tags currently set, in Kind order.
func (s *Set) List() []Tag {
	out := make([]Tag, 0, kindCount)
	for _, t := range s.tags {
		if t != nil {
			out = append(out, *t)
		}
	}
	return out
}
