package classifier

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Weights parameterize the complexity score:
//
//	score = min(1.0, Equation*equation_count + Symbol*symbol_count + Length*byte_length)
//
// The score is monotonic in each input and clamped to [0, 1].
type Weights struct {
	Equation float64
	Symbol   float64
	Length   float64
}

// DefaultWeights returns the default complexity weights.
func DefaultWeights() Weights {
	return Weights{
		Equation: 0.15,
		Symbol:   0.02,
		Length:   0.0005,
	}
}

// Classification is the result of classifying one content fragment.
type Classification struct {
	Format          string       `json:"format"`
	FormatVersion   string       `json:"format_version"`
	SupportLevel    SupportLevel `json:"support_level"`
	ComplexityScore float64      `json:"complexity_score"` // In [0, 1]
	ContentHash     string       `json:"content_hash"`     // SHA-256 hex; empty for empty content
}

// Classifier detects typesetting formats. It holds its registry behind a
// read lock so a RegistryWatcher can swap it while classifications run.
type Classifier struct {
	mu       sync.RWMutex
	registry *Registry
	weights  Weights
}

// New creates a classifier over the given registry. A nil registry uses
// the built-in defaults.
func New(registry *Registry, weights Weights) *Classifier {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	return &Classifier{registry: registry, weights: weights}
}

// Classify detects the content's typesetting format and scores its
// complexity. It is pure and never fails: identical content always yields
// an identical classification, and empty content classifies as the default
// format with complexity zero.
func (c *Classifier) Classify(content string) Classification {
	if content == "" {
		return c.annotate(Classification{
			Format:          FormatMarkdownMath,
			ComplexityScore: 0,
		})
	}

	format := FormatMarkdownMath
	equations := defaultEquations(content)
	for _, rule := range detectionRules {
		if rule.match(content) {
			format = rule.format
			equations = rule.equations(content)
			break
		}
	}

	return c.annotate(Classification{
		Format:          format,
		ComplexityScore: c.score(equations, countSymbols(content), len(content)),
		ContentHash:     hashContent(content),
	})
}

// SetRegistry atomically replaces the classifier's registry.
func (c *Classifier) SetRegistry(registry *Registry) {
	if registry == nil {
		return
	}
	c.mu.Lock()
	c.registry = registry
	c.mu.Unlock()
}

// annotate fills version and support level from the registry entry.
func (c *Classifier) annotate(result Classification) Classification {
	c.mu.RLock()
	registry := c.registry
	c.mu.RUnlock()

	if entry, ok := registry.Lookup(result.Format); ok {
		result.FormatVersion = entry.Version
		result.SupportLevel = entry.SupportLevel
	}
	return result
}

// score computes the bounded weighted complexity sum.
func (c *Classifier) score(equations, symbols, length int) float64 {
	score := c.weights.Equation*float64(equations) +
		c.weights.Symbol*float64(symbols) +
		c.weights.Length*float64(length)
	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}

// hashContent returns the hex-encoded SHA-256 hash of the content, or an
// empty string for empty content.
func hashContent(content string) string {
	if content == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
