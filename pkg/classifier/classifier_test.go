package classifier

import (
	"strings"
	"testing"
)

func TestClassify_FormatDetection(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "typst set directive", content: "#set page(width: 10cm)", want: FormatTypst},
		{name: "typst let binding", content: "#let area(r) = calc.pi * r * r", want: FormatTypst},
		{name: "typst import", content: "#import \"@preview/cetz:0.2.2\"", want: FormatTypst},
		{name: "latex equation environment", content: `\begin{equation}x=1\end{equation}`, want: FormatLaTeX},
		{name: "latex documentclass", content: `\documentclass{article}`, want: FormatLaTeX},
		{name: "latex display math", content: `\[ e^{i\pi} + 1 = 0 \]`, want: FormatLaTeX},
		{name: "latex bare command", content: `the ratio \frac{a}{b} grows`, want: FormatLaTeX},
		{name: "asciimath sum keyword", content: "sum_(i=1)^n i^3", want: FormatAsciiMath},
		{name: "asciimath backtick span", content: "the area is `pi r^2` exactly", want: FormatAsciiMath},
		{name: "mathml tags", content: "<math><mrow><mi>x</mi></mrow></math>", want: FormatMathML},
		{name: "plain dollar math", content: "solve $x^2 + 5x + 6 = 0$ for x", want: FormatMarkdownMath},
		{name: "plain prose", content: "twelve plus thirty", want: FormatMarkdownMath},
	}

	c := New(nil, DefaultWeights())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.content)
			if got.Format != tt.want {
				t.Errorf("Classify(%q).Format = %s, want %s", tt.content, got.Format, tt.want)
			}
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	c := New(nil, DefaultWeights())

	// Content carrying both Typst and LaTeX markers resolves to Typst:
	// first matching rule wins.
	mixed := `#set math.equation(numbering: "1") \begin{equation}x\end{equation}`
	if got := c.Classify(mixed).Format; got != FormatTypst {
		t.Errorf("mixed typst/latex = %s, want %s", got, FormatTypst)
	}

	// LaTeX outranks AsciiMath.
	mixed = `\begin{equation} sum_(i=1)^n i \end{equation}`
	if got := c.Classify(mixed).Format; got != FormatLaTeX {
		t.Errorf("mixed latex/asciimath = %s, want %s", got, FormatLaTeX)
	}

	// AsciiMath outranks MathML.
	mixed = "sum_(i=1)^n <math></math>"
	if got := c.Classify(mixed).Format; got != FormatAsciiMath {
		t.Errorf("mixed asciimath/mathml = %s, want %s", got, FormatAsciiMath)
	}
}

func TestClassify_EmptyContent(t *testing.T) {
	c := New(nil, DefaultWeights())

	got := c.Classify("")
	if got.Format != FormatMarkdownMath {
		t.Errorf("Format = %s, want %s", got.Format, FormatMarkdownMath)
	}
	if got.ComplexityScore != 0 {
		t.Errorf("ComplexityScore = %v, want 0", got.ComplexityScore)
	}
	if got.ContentHash != "" {
		t.Errorf("ContentHash = %q, want empty", got.ContentHash)
	}
	// Registry annotation still applies to the default format.
	if got.FormatVersion == "" || got.SupportLevel == "" {
		t.Errorf("default classification missing registry annotation: %+v", got)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	c := New(nil, DefaultWeights())
	content := `\begin{align} x &= 1 \\ y &= 2 \end{align}`

	first := c.Classify(content)
	for i := 0; i < 10; i++ {
		if got := c.Classify(content); got != first {
			t.Fatalf("run %d classification %+v differs from first %+v", i, got, first)
		}
	}
}

func TestClassify_ComplexityScore(t *testing.T) {
	c := New(nil, DefaultWeights())

	t.Run("monotonic in equation density", func(t *testing.T) {
		one := c.Classify("$x$").ComplexityScore
		three := c.Classify("$x$ $y$ $z$").ComplexityScore
		if three <= one {
			t.Errorf("three equations scored %v, one scored %v; want monotonic growth", three, one)
		}
	})

	t.Run("clamped to one", func(t *testing.T) {
		huge := strings.Repeat("$x^2 + y_1$ ", 500)
		if got := c.Classify(huge).ComplexityScore; got != 1 {
			t.Errorf("ComplexityScore = %v, want clamp to 1", got)
		}
	})

	t.Run("bounded for prose", func(t *testing.T) {
		got := c.Classify("a short note").ComplexityScore
		if got < 0 || got > 1 {
			t.Errorf("ComplexityScore = %v outside [0, 1]", got)
		}
	})
}

func TestClassify_ContentHash(t *testing.T) {
	c := New(nil, DefaultWeights())

	a := c.Classify("$x$")
	b := c.Classify("$x$")
	if a.ContentHash != b.ContentHash {
		t.Error("identical content hashed differently")
	}
	if len(a.ContentHash) != 64 {
		t.Errorf("hash length = %d, want 64 hex characters", len(a.ContentHash))
	}
	if c.Classify("$y$").ContentHash == a.ContentHash {
		t.Error("different content produced the same hash")
	}
}

func TestClassify_RegistryAnnotation(t *testing.T) {
	registry, err := NewRegistry([]Format{
		{Name: FormatTypst, Version: "9.9", SupportLevel: SupportDeprecated, DeterministicParsing: true, PerformanceScore: 0.1},
	})
	if err != nil {
		t.Fatalf("NewRegistry() failed: %v", err)
	}

	c := New(registry, DefaultWeights())

	got := c.Classify("#set page(width: 10cm)")
	if got.FormatVersion != "9.9" {
		t.Errorf("FormatVersion = %s, want 9.9", got.FormatVersion)
	}
	if got.SupportLevel != SupportDeprecated {
		t.Errorf("SupportLevel = %s, want %s", got.SupportLevel, SupportDeprecated)
	}

	// A format absent from the registry still classifies; it just has no
	// annotation.
	got = c.Classify(`\begin{equation}x\end{equation}`)
	if got.Format != FormatLaTeX {
		t.Errorf("Format = %s, want %s", got.Format, FormatLaTeX)
	}
	if got.FormatVersion != "" {
		t.Errorf("FormatVersion = %q, want empty for unregistered format", got.FormatVersion)
	}
}
