package rule

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/welschmorgan/nbuild/internal/nberrors"
)

// Format describes one serialization format: the file extensions it
// claims, and how to decode/encode a list of rules (spec.md section 6,
// "one of JSON/YAML/TOML; all describe the same schema"). Grounded in
// _examples/original_source/src/lib/build/rule.rs's RULE_FORMATS table.
type Format struct {
	Name string
	Exts []string
	read func(io.Reader) ([]Rule, error)
	save func([]Rule, io.Writer) error
}

func (f Format) Read(r io.Reader) ([]Rule, error) { return f.read(r) }
func (f Format) Save(rules []Rule, w io.Writer) error {
	return f.save(rules, w)
}

func decodeConfigs(cfgs []config) ([]Rule, error) {
	rules := make([]Rule, 0, len(cfgs))
	for _, c := range cfgs {
		r, err := fromConfig(c)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func encodeRules(rules []Rule) []config {
	cfgs := make([]config, 0, len(rules))
	for _, r := range rules {
		cfgs = append(cfgs, toConfig(r))
	}
	return cfgs
}

// Formats is the enabled serialization-format set, in the extension
// order spec.md section 4.1 requires when searching a directory: JSON,
// YAML, TOML.
var Formats = []Format{
	{
		Name: "json",
		Exts: []string{"json"},
		read: func(r io.Reader) ([]Rule, error) {
			var cfgs []config
			dec := json.NewDecoder(r)
			if err := dec.Decode(&cfgs); err != nil {
				return nil, nberrors.Wrap(nberrors.KindIO, err, "failed to read json rules")
			}
			return decodeConfigs(cfgs)
		},
		save: func(rules []Rule, w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(encodeRules(rules)); err != nil {
				return nberrors.Wrap(nberrors.KindIO, err, "failed to write json rules")
			}
			return nil
		},
	},
	{
		Name: "yaml",
		Exts: []string{"yaml", "yml"},
		read: func(r io.Reader) ([]Rule, error) {
			var cfgs []config
			if err := yaml.NewDecoder(r).Decode(&cfgs); err != nil {
				return nil, nberrors.Wrap(nberrors.KindIO, err, "failed to read yaml rules")
			}
			return decodeConfigs(cfgs)
		},
		save: func(rules []Rule, w io.Writer) error {
			if err := yaml.NewEncoder(w).Encode(encodeRules(rules)); err != nil {
				return nberrors.Wrap(nberrors.KindIO, err, "failed to write yaml rules")
			}
			return nil
		},
	},
	{
		Name: "toml",
		Exts: []string{"toml"},
		read: func(r io.Reader) ([]Rule, error) {
			var doc struct {
				Rules []config `toml:"rules"`
			}
			if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
				return nil, nberrors.Wrap(nberrors.KindIO, err, "failed to read toml rules")
			}
			return decodeConfigs(doc.Rules)
		},
		save: func(rules []Rule, w io.Writer) error {
			var buf bytes.Buffer
			doc := struct {
				Rules []config `toml:"rules"`
			}{Rules: encodeRules(rules)}
			if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
				return nberrors.Wrap(nberrors.KindIO, err, "failed to write toml rules")
			}
			_, err := w.Write(buf.Bytes())
			return err
		},
	},
}

// FormatForExt returns the Format claiming ext (case-insensitive,
// without a leading dot), if any.
func FormatForExt(ext string) (Format, bool) {
	for _, f := range Formats {
		for _, e := range f.Exts {
			if equalFold(e, ext) {
				return f, true
			}
		}
	}
	return Format{}, false
}
