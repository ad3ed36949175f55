// Package export writes proofs to external formats. Its main consumer is
// the retention pruner, which archives proofs before deleting them.
package export

import (
	"context"
	"encoding/json"
	"io"

	"veritas-hq/veritas/pkg/proof"
)

// JSONExporter exports proofs to JSON format.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{
		Pretty: pretty,
	}
}

// Export writes proofs to the provided writer as a JSON array. An empty
// input writes an empty array so the output is always valid JSON.
func (e *JSONExporter) Export(ctx context.Context, proofs []*proof.VeritasProof, w io.Writer) error {
	if len(proofs) == 0 {
		_, err := w.Write([]byte("[]"))
		return err
	}

	var data []byte
	var err error
	if e.Pretty {
		data, err = json.MarshalIndent(proofs, "", "  ")
	} else {
		data, err = json.Marshal(proofs)
	}
	if err != nil {
		return proof.NewExportError("json", len(proofs), err)
	}

	if _, err := w.Write(data); err != nil {
		return proof.NewExportError("json", len(proofs), err)
	}

	return nil
}
