package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"blinkdrone/internal/telemetry"
)

// JSONStdoutWriter prints state rows as JSON lines.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to out, or to
// os.Stdout when out is nil.
func NewJSONStdoutWriter(out io.Writer) *JSONStdoutWriter {
	if out == nil {
		out = os.Stdout
	}
	return &JSONStdoutWriter{out: out}
}

// WriteState outputs a state row in JSON format.
func (w *JSONStdoutWriter) WriteState(row telemetry.StateRow) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}
