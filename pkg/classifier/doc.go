// Package classifier detects the typesetting notation used in a text
// fragment and scores its mathematical complexity.
//
// Detection is rule-ordered, not statistical: each candidate format has a
// small set of high-signal lexical markers, rules are evaluated in a fixed
// priority order (Typst > LaTeX > AsciiMath > MathML > markdown-math
// default), and the first match wins. The order is a deliberate tie-break
// policy.
//
// Classification is a pure function of the input text and the injected
// format registry. It never fails: empty content classifies as the default
// format with complexity zero.
//
// The registry is loaded from YAML and can be hot-reloaded through
// RegistryWatcher, which swaps the registry atomically so in-flight
// classifications always see a consistent table.
package classifier
