// Package rule implements the Rule Store: the classification profiles
// that drive the Preparer, their discovery/load/save lifecycle, and the
// active-rule selection (spec.md section 4.1).
package rule

import (
	"regexp"

	"github.com/welschmorgan/nbuild/internal/nberrors"
	"github.com/welschmorgan/nbuild/internal/tag"
)

// DeclaredMarker is a rule-supplied definition: kind, a compiled regex
// used to find the marker text in a line, and a display style. Regexes
// are compiled once when the Rule is materialized (spec.md section 9,
// "Regex compilation") and shared by reference across worker goroutines.
type DeclaredMarker struct {
	Kind    tag.Kind
	Pattern *regexp.Regexp
	Style   Style
}

// Rule is a named classification profile: an ordered list of human
// aliases, the default shell command to run when no input stream is
// piped in, and an ordered list of declared markers.
type Rule struct {
	Aliases []string
	Command string
	Markers []DeclaredMarker
}

// HasAlias reports whether alias matches one of r's aliases,
// case-insensitively.
func (r Rule) HasAlias(alias string) bool {
	for _, a := range r.Aliases {
		if equalFold(a, alias) {
			return true
		}
	}
	return false
}

// Marker returns the first declared marker of the given kind, and
// whether one exists. Per spec.md section 4.1, "the first match per
// line wins per kind" is about matching order within a line; this
// method is about which declared marker a Rule has registered for a
// kind (a Rule declares at most one marker per kind in practice, though
// nothing here enforces that -- the first one registered wins, matching
// _examples/original_source/src/lib/marker.rs's `known_marker`).
func (r Rule) Marker(k tag.Kind) (DeclaredMarker, bool) {
	for _, m := range r.Markers {
		if m.Kind == k {
			return m, true
		}
	}
	return DeclaredMarker{}, false
}

// MustMarker returns the declared marker of kind k, or a KindRule error
// if the active rule doesn't declare it (spec.md section 7, "Rule:
// active rule does not declare the marker kind being constructed").
func (r Rule) MustMarker(k tag.Kind) (DeclaredMarker, error) {
	m, ok := r.Marker(k)
	if !ok {
		return DeclaredMarker{}, nberrors.New(nberrors.KindRule, "rule %v has no declared marker of kind %s", r.Aliases, k)
	}
	return m, nil
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// defaultMarkerPattern matches e.g. "error:" or "error[E0001]:" (the
// word, an optional bracketed identifier, then a required colon), at any
// position in the line.
func defaultMarkerPattern(word string) *regexp.Regexp {
	return regexp.MustCompile(word + `(\[\w+\])?:`)
}

// Default is the built-in rule: aliases {rust, cargo, "rust: cargo"},
// command "cargo build", three markers for error/warning/note
// (spec.md section 4.1).
var Default = Rule{
	Aliases: []string{"rust: cargo", "cargo", "rust"},
	Command: "cargo build",
	Markers: []DeclaredMarker{
		{Kind: tag.Error, Pattern: defaultMarkerPattern("error"), Style: redBold()},
		{Kind: tag.Warning, Pattern: defaultMarkerPattern("warning"), Style: yellowBold()},
		{Kind: tag.Note, Pattern: defaultMarkerPattern("note"), Style: blueBold()},
	},
}
