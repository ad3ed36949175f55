package proof

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// canonicalPayload serializes the hashable fields of a proof into a stable
// byte string. The format is line-oriented:
//
//	expression:<text>
//	var:<name>=<value>        (one line per variable, sorted by name)
//	step:<index>:<operation>:<rendering>=<result>
//	result:<value>
//
// Floats are rendered with strconv.FormatFloat(v, 'g', 17, 64), which round
// trips every float64 to a unique text form. Any change to this format is a
// new verifier system and must bump VerifierSystemID.
func canonicalPayload(p *VeritasProof) string {
	var b strings.Builder

	b.WriteString("expression:")
	b.WriteString(p.Expression)
	b.WriteByte('\n')

	names := make([]string, 0, len(p.Variables))
	for name := range p.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString("var:")
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(canonicalFloat(p.Variables[name]))
		b.WriteByte('\n')
	}

	for _, step := range p.Steps {
		b.WriteString("step:")
		b.WriteString(strconv.Itoa(step.StepIndex))
		b.WriteByte(':')
		b.WriteString(step.Operation)
		b.WriteByte(':')
		b.WriteString(step.Rendering)
		b.WriteByte('=')
		b.WriteString(canonicalFloat(step.Result))
		b.WriteByte('\n')
	}

	b.WriteString("result:")
	b.WriteString(canonicalFloat(p.FinalResult))
	b.WriteByte('\n')

	return b.String()
}

// ComputeHash returns the hex-encoded SHA-256 hash of the proof's canonical
// payload. Only computation fields are hashed; identity, attribution and
// timestamps stay outside the hash so the same computation always produces
// the same hash regardless of who ran it or when.
func ComputeHash(p *VeritasProof) string {
	sum := sha256.Sum256([]byte(canonicalPayload(p)))
	return hex.EncodeToString(sum[:])
}

// canonicalFloat renders a float64 in the canonical round-trip form used
// throughout hashing. Must match the evaluator's step rendering format.
func canonicalFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 17, 64)
}
