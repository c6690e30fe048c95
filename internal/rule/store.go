package rule

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/welschmorgan/nbuild/internal/nberrors"
)

// Store holds the in-memory rule table and the active-rule selection.
// The rule list and active-rule name are protected by separate mutexes,
// read via short critical sections (spec.md section 5, "Global mutable
// state"), matching the teacher's `options` package's preference for
// explicit small critical sections over one coarse lock.
type Store struct {
	rulesMu sync.RWMutex
	rules   []Rule

	activeMu sync.RWMutex
	active   string

	ingestionStarted bool
}

// NewStore constructs a Store seeded with the built-in Default rule,
// with "rust" selected as active (matching
// _examples/original_source/src/lib/build/rule.rs's `_active_rule`
// default).
func NewStore() *Store {
	return &Store{
		rules:  []Rule{Default},
		active: "rust",
	}
}

// Rules returns a copy of the current rule table.
func (s *Store) Rules() []Rule {
	s.rulesMu.RLock()
	defer s.rulesMu.RUnlock()
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Find returns the rule with the given alias, case-insensitively.
func (s *Store) Find(alias string) (Rule, bool) {
	s.rulesMu.RLock()
	defer s.rulesMu.RUnlock()
	for _, r := range s.rules {
		if r.HasAlias(alias) {
			return r, true
		}
	}
	return Rule{}, false
}

// SetActive selects the active rule by alias. Valid only between
// construction and entry ingestion (spec.md section 4.1); once
// BeginIngestion has been called, SetActive returns a Rule error and
// has no effect, so the rule the Preparer reads stays the same.
func (s *Store) SetActive(alias string) error {
	if _, ok := s.Find(alias); !ok {
		return nberrors.New(nberrors.KindRule, "unknown rule alias %q", alias)
	}
	if s.ingestionStarted {
		return nberrors.New(nberrors.KindRule, "cannot change active rule after ingestion has begun")
	}
	s.activeMu.Lock()
	s.active = alias
	s.activeMu.Unlock()
	return nil
}

// Active returns the currently active Rule.
func (s *Store) Active() Rule {
	s.activeMu.RLock()
	alias := s.active
	s.activeMu.RUnlock()
	r, ok := s.Find(alias)
	if !ok {
		return Default
	}
	return r
}

// BeginIngestion freezes the active-rule selection; main calls it once,
// after choosing the active rule and before the producers start. The
// Preparer reads Active() on every Prepare call, so from then on every
// entry is classified with the same rule.
func (s *Store) BeginIngestion() {
	s.ingestionStarted = true
}

// Merge appends rules from loaded whose aliases don't collide
// (case-insensitively) with any existing rule; alias collisions resolve
// in favor of the first loaded rule (spec.md section 4.1, "Loading").
func (s *Store) Merge(loaded []Rule) {
	s.rulesMu.Lock()
	defer s.rulesMu.Unlock()
	for _, candidate := range loaded {
		if s.collidesLocked(candidate) {
			continue
		}
		s.rules = append(s.rules, candidate)
	}
}

func (s *Store) collidesLocked(candidate Rule) bool {
	for _, existing := range s.rules {
		for _, a := range candidate.Aliases {
			if existing.HasAlias(a) {
				return true
			}
		}
	}
	return false
}

// Load discovers a config file (or uses explicitPath if non-empty),
// reads it, and merges the rules into the Store. Returns the path read,
// or a FileNotFound error if explicitPath is empty and none was
// discovered. Read failures fall back silently to the built-in
// defaults already present in the Store (spec.md section 7,
// "Config read failures fall back to the built-in defaults").
func (s *Store) Load(explicitPath string) (string, error) {
	path := explicitPath
	var format Format
	if path == "" {
		var ok bool
		path, format, ok = Locate()
		if !ok {
			return "", nberrors.New(nberrors.KindFileNotFound, "no nbuild config file discovered")
		}
	} else {
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		f, ok := FormatForExt(ext)
		if !ok {
			return "", nberrors.New(nberrors.KindIO, "unsupported config extension %q", ext)
		}
		format = f
	}

	f, err := os.Open(path)
	if err != nil {
		return "", nberrors.Wrap(nberrors.KindIO, err, "failed to open config %s", path)
	}
	defer f.Close()

	loaded, err := format.Read(f)
	if err != nil {
		return "", err
	}
	s.Merge(loaded)
	return path, nil
}

// Save writes the current rule table to path using format, creating
// parent directories as needed. Fails with an IO error if writing is
// impossible (spec.md section 4.1, "Saving").
func (s *Store) Save(path string, format Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nberrors.Wrap(nberrors.KindIO, err, "failed to create config dir for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return nberrors.Wrap(nberrors.KindIO, err, "failed to create config file %s", path)
	}
	defer f.Close()
	return format.Save(s.Rules(), f)
}

// Eject writes to the discovered path (if one was used to load rules) or
// to DefaultSystemLocation()/./nbuild.<ext> otherwise, per spec.md
// section 6's --eject-config flag. If discoveredPath is empty,
// ejectToCwd selects the current directory (true) or
// DefaultSystemLocation() (false).
func (s *Store) Eject(discoveredPath string, ejectToCwd bool) (string, error) {
	if discoveredPath != "" {
		ext := strings.TrimPrefix(filepath.Ext(discoveredPath), ".")
		format, ok := FormatForExt(ext)
		if !ok {
			format = Formats[0]
		}
		return discoveredPath, s.Save(discoveredPath, format)
	}
	format := Formats[0]
	path := DefaultSystemLocation()
	if ejectToCwd {
		path = filepath.Join(".", ConfigBaseName+"."+format.Exts[0])
	}
	return path, s.Save(path, format)
}
