package rule

// Style is the library-defined style object referenced by spec.md
// section 6's config schema (`style: { fg?, bg?, modifiers? }`). Kept
// library-agnostic here; internal/ui converts it to a lipgloss.Style at
// render time so this package never imports the rendering stack.
type Style struct {
	Fg        string   `json:"fg,omitempty" yaml:"fg,omitempty" toml:"fg,omitempty"`
	Bg        string   `json:"bg,omitempty" yaml:"bg,omitempty" toml:"bg,omitempty"`
	Modifiers []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty" toml:"modifiers,omitempty"`
}

// Modifier name constants recognised in the "modifiers" list.
const (
	ModBold      = "bold"
	ModItalic    = "italic"
	ModUnderline = "underline"
	ModDim       = "dim"
)

// HasModifier reports whether s declares the named modifier.
func (s Style) HasModifier(name string) bool {
	for _, m := range s.Modifiers {
		if m == name {
			return true
		}
	}
	return false
}

func redBold() Style    { return Style{Fg: "red", Modifiers: []string{ModBold}} }
func yellowBold() Style { return Style{Fg: "yellow", Modifiers: []string{ModBold}} }
func blueBold() Style   { return Style{Fg: "blue", Modifiers: []string{ModBold}} }
