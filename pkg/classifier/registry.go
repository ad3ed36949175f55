package classifier

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SupportLevel indicates how well the system handles a typesetting format.
type SupportLevel string

const (
	SupportNative     SupportLevel = "native"
	SupportFull       SupportLevel = "full"
	SupportBasic      SupportLevel = "basic"
	SupportLegacy     SupportLevel = "legacy"
	SupportDeprecated SupportLevel = "deprecated"
)

// Known format names. These are the only values detection can produce; the
// registry describes them but does not invent new ones.
const (
	FormatTypst        = "typst"
	FormatLaTeX        = "latex"
	FormatAsciiMath    = "asciimath"
	FormatMathML       = "mathml"
	FormatMarkdownMath = "markdown-math" // Default when nothing else matches
)

// Format is one registry entry describing a typesetting format.
type Format struct {
	Name                 string       `yaml:"name" json:"name"`
	Version              string       `yaml:"version" json:"version"`
	SupportLevel         SupportLevel `yaml:"support_level" json:"support_level"`
	DeterministicParsing bool         `yaml:"deterministic_parsing" json:"deterministic_parsing"`
	PerformanceScore     float64      `yaml:"performance_score" json:"performance_score"`
}

// Registry is the format reference table consumed read-only by the
// classifier. It is an explicit injected object, not a global: callers
// construct one (from defaults or a YAML file) and pass it in.
type Registry struct {
	formats map[string]Format
}

// registryFile is the YAML shape of a registry file.
type registryFile struct {
	Formats []Format `yaml:"formats"`
}

// NewRegistry builds a registry from explicit entries.
func NewRegistry(formats []Format) (*Registry, error) {
	r := &Registry{formats: make(map[string]Format, len(formats))}
	for _, f := range formats {
		if err := validateFormat(f); err != nil {
			return nil, err
		}
		if _, ok := r.formats[f.Name]; ok {
			return nil, fmt.Errorf("duplicate format %q in registry", f.Name)
		}
		r.formats[f.Name] = f
	}
	return r, nil
}

// DefaultRegistry returns the built-in registry seed. It covers every
// format detection can produce, so classification works with no registry
// file at all.
func DefaultRegistry() *Registry {
	r, err := NewRegistry([]Format{
		{Name: FormatTypst, Version: "0.12", SupportLevel: SupportNative, DeterministicParsing: true, PerformanceScore: 0.95},
		{Name: FormatLaTeX, Version: "2e", SupportLevel: SupportFull, DeterministicParsing: false, PerformanceScore: 0.80},
		{Name: FormatAsciiMath, Version: "2.2", SupportLevel: SupportBasic, DeterministicParsing: true, PerformanceScore: 0.85},
		{Name: FormatMathML, Version: "3.0", SupportLevel: SupportLegacy, DeterministicParsing: true, PerformanceScore: 0.60},
		{Name: FormatMarkdownMath, Version: "1.0", SupportLevel: SupportBasic, DeterministicParsing: true, PerformanceScore: 0.90},
	})
	if err != nil {
		panic(err) // Static seed; cannot fail
	}
	return r
}

// LoadRegistry reads a registry from a YAML file. Entries for the five
// known formats override the defaults; the defaults fill any format the
// file omits, so detection never dangles.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse registry file %s: %w", path, err)
	}

	r := DefaultRegistry()
	for _, f := range file.Formats {
		if err := validateFormat(f); err != nil {
			return nil, fmt.Errorf("registry file %s: %w", path, err)
		}
		r.formats[f.Name] = f
	}

	return r, nil
}

// Lookup returns the registry entry for a format name.
func (r *Registry) Lookup(name string) (Format, bool) {
	f, ok := r.formats[name]
	return f, ok
}

// Names returns all registered format names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	return names
}

func validateFormat(f Format) error {
	if f.Name == "" {
		return fmt.Errorf("format entry missing name")
	}
	switch f.SupportLevel {
	case SupportNative, SupportFull, SupportBasic, SupportLegacy, SupportDeprecated:
	default:
		return fmt.Errorf("format %q has invalid support level %q", f.Name, f.SupportLevel)
	}
	if f.PerformanceScore < 0 || f.PerformanceScore > 1 {
		return fmt.Errorf("format %q has performance score %v outside [0, 1]", f.Name, f.PerformanceScore)
	}
	return nil
}
