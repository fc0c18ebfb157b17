package writer

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/payslip-converter/internal/parser"
)

// JSONWriter writes the full result as JSON.
type JSONWriter struct {
	Indent string
}

func (w *JSONWriter) Write(out io.Writer, res *parser.Result) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	if w.Indent != "" {
		enc.SetIndent("", w.Indent)
	}
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("json: %w", err)
	}
	return nil
}

// YAMLWriter writes the full result as YAML with the same field names as
// the JSON output.
type YAMLWriter struct{}

func (w *YAMLWriter) Write(out io.Writer, res *parser.Result) error {
	// Round-trip through JSON so the json tags decide the keys.
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("yaml: %w", err)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	return enc.Close()
}
