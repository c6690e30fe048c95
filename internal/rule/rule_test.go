package rule

import (
	"bytes"
	"testing"

	"github.com/welschmorgan/nbuild/internal/tag"
)

func TestDefaultRuleAliases(t *testing.T) {
	if !Default.HasAlias("cargo") {
		t.Fatalf("expected default rule to answer to alias 'cargo'")
	}
	if !Default.HasAlias("RUST") {
		t.Fatalf("alias lookup should be case-insensitive")
	}
	if Default.HasAlias("gradle") {
		t.Fatalf("did not expect default rule to answer to 'gradle'")
	}
}

func TestDefaultRuleMarkers(t *testing.T) {
	for _, k := range []tag.Kind{tag.Error, tag.Warning, tag.Note} {
		m, ok := Default.Marker(k)
		if !ok {
			t.Fatalf("expected default rule to declare marker %s", k)
		}
		if m.Pattern == nil {
			t.Fatalf("expected compiled pattern for %s", k)
		}
	}
}

func TestDefaultRuleMustMarkerUnknownKind(t *testing.T) {
	if _, err := Default.MustMarker(tag.Location); err == nil {
		t.Fatalf("expected Rule error for a kind the default rule doesn't declare")
	}
}

func TestStoreMergeAliasCollisionFavorsFirstLoaded(t *testing.T) {
	s := NewStore()
	custom := Rule{Aliases: []string{"CARGO"}, Command: "cargo check"}
	s.Merge([]Rule{custom})

	r, ok := s.Find("cargo")
	if !ok {
		t.Fatalf("expected to find rule by alias")
	}
	if r.Command != Default.Command {
		t.Fatalf("collision should favor first-loaded rule, got command %q", r.Command)
	}
}

func TestStoreMergeAddsNonCollidingRule(t *testing.T) {
	s := NewStore()
	s.Merge([]Rule{{Aliases: []string{"gradle"}, Command: "./gradlew build"}})

	if _, ok := s.Find("gradle"); !ok {
		t.Fatalf("expected gradle rule to be merged in")
	}
	if len(s.Rules()) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(s.Rules()))
	}
}

func TestStoreSetActiveFrozenAfterIngestion(t *testing.T) {
	s := NewStore()
	s.Merge([]Rule{{Aliases: []string{"gradle"}, Command: "./gradlew build"}})
	s.BeginIngestion()
	if err := s.SetActive("gradle"); err == nil {
		t.Fatalf("expected error setting active rule after ingestion began")
	}
}

func TestJSONFormatRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	fmtJSON, _ := FormatForExt("json")
	if err := fmtJSON.Save([]Rule{Default}, &buf); err != nil {
		t.Fatalf("save: %v", err)
	}
	rules, err := fmtJSON.Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rules) != 1 || !rules[0].HasAlias("cargo") {
		t.Fatalf("round trip lost data: %+v", rules)
	}
}

func TestYAMLFormatRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	fmtYAML, _ := FormatForExt("yaml")
	if err := fmtYAML.Save([]Rule{Default}, &buf); err != nil {
		t.Fatalf("save: %v", err)
	}
	rules, err := fmtYAML.Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
}

func TestTOMLFormatRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	fmtTOML, _ := FormatForExt("toml")
	if err := fmtTOML.Save([]Rule{Default}, &buf); err != nil {
		t.Fatalf("save: %v", err)
	}
	rules, err := fmtTOML.Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
}
