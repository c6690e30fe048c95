package rule

import (
	"fmt"
	"regexp"

	"github.com/welschmorgan/nbuild/internal/tag"
)

// config is the on-disk schema, shared by all three serialization
// formats (spec.md section 6):
//
//	- aliases: [string, ...]
//	  command: string
//	  markers:
//	    - tag: Error|Warning|Note|Hidden|Location
//	      regex: string
//	      style: { fg?, bg?, modifiers? }
type config struct {
	Aliases []string       `json:"aliases" yaml:"aliases" toml:"aliases"`
	Command string         `json:"command" yaml:"command" toml:"command"`
	Markers []markerConfig `json:"markers" yaml:"markers" toml:"markers"`
}

type markerConfig struct {
	Tag   string `json:"tag" yaml:"tag" toml:"tag"`
	Regex string `json:"regex" yaml:"regex" toml:"regex"`
	Style Style  `json:"style" yaml:"style" toml:"style"`
}

func kindFromString(s string) (tag.Kind, error) {
	switch s {
	case "Error":
		return tag.Error, nil
	case "Warning":
		return tag.Warning, nil
	case "Note":
		return tag.Note, nil
	case "Hidden":
		return tag.Hidden, nil
	case "Location":
		return tag.Location, nil
	default:
		return 0, fmt.Errorf("unknown marker tag %q", s)
	}
}

func kindToString(k tag.Kind) string {
	return k.String()
}

func fromConfig(c config) (Rule, error) {
	r := Rule{Aliases: c.Aliases, Command: c.Command}
	for _, m := range c.Markers {
		kind, err := kindFromString(m.Tag)
		if err != nil {
			return Rule{}, err
		}
		re, err := regexp.Compile(m.Regex)
		if err != nil {
			return Rule{}, fmt.Errorf("invalid regex %q for tag %s: %w", m.Regex, m.Tag, err)
		}
		r.Markers = append(r.Markers, DeclaredMarker{Kind: kind, Pattern: re, Style: m.Style})
	}
	return r, nil
}

func toConfig(r Rule) config {
	c := config{Aliases: r.Aliases, Command: r.Command}
	for _, m := range r.Markers {
		pattern := ""
		if m.Pattern != nil {
			pattern = m.Pattern.String()
		}
		c.Markers = append(c.Markers, markerConfig{
			Tag:   kindToString(m.Kind),
			Regex: pattern,
			Style: m.Style,
		})
	}
	return c
}
