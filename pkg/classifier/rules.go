package classifier

import (
	"regexp"
	"strings"
)

// detectionRule ties a format name to its lexical markers and its
// per-format equation counting policy.
type detectionRule struct {
	format string

	// match reports whether the content carries this format's markers.
	match func(content string) bool

	// equations counts equation units under this format's delimiter
	// conventions. Feeds the complexity score.
	equations func(content string) int
}

// latexCommand matches a bare LaTeX command with a braced argument,
// e.g. \frac{ or \mathbb{.
var latexCommand = regexp.MustCompile(`\\[a-zA-Z]+\{`)

// asciiMathSpan matches a backtick-delimited inline math span.
var asciiMathSpan = regexp.MustCompile("`[^`]+`")

// detectionRules is evaluated top to bottom; the first matching rule wins.
// The order (Typst > LaTeX > AsciiMath > MathML) is a fixed tie-break
// policy. The markdown-math default is not a rule: it is what remains when
// no rule matches.
var detectionRules = []detectionRule{
	{
		format: FormatTypst,
		match: func(content string) bool {
			return containsAny(content, "#set", "#show", "#let", "#import")
		},
		equations: func(content string) int {
			return strings.Count(content, "$") / 2
		},
	},
	{
		format: FormatLaTeX,
		match: func(content string) bool {
			if containsAny(content, `\begin{`, `\documentclass`, `\[`) {
				return true
			}
			return latexCommand.MatchString(content)
		},
		equations: func(content string) int {
			count := strings.Count(content, `\begin{`)
			count += strings.Count(content, `\[`)
			count += strings.Count(content, "$") / 2
			return count
		},
	},
	{
		format: FormatAsciiMath,
		match: func(content string) bool {
			if containsAny(content, "sum_", "int_", "prod_", "sqrt(") {
				return true
			}
			return asciiMathSpan.MatchString(content)
		},
		equations: func(content string) int {
			return strings.Count(content, "`") / 2
		},
	},
	{
		format: FormatMathML,
		match: func(content string) bool {
			return containsAny(content, "<math", "<mrow", "<mi>", "<mo>", "<mfrac")
		},
		equations: func(content string) int {
			return strings.Count(content, "<math")
		},
	},
}

// defaultEquations counts equation units for the markdown-math default.
func defaultEquations(content string) int {
	return strings.Count(content, "$") / 2
}

// specialSymbols is the character set counted toward the complexity score.
const specialSymbols = `^_\{}=+-*/<>|&~`

// countSymbols counts occurrences of mathematical special symbols.
func countSymbols(content string) int {
	count := 0
	for _, r := range content {
		if strings.ContainsRune(specialSymbols, r) {
			count++
		}
	}
	return count
}

func containsAny(content string, markers ...string) bool {
	for _, marker := range markers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}
