package writer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/insightdelivered/payslip-converter/internal/parser"
)

// Format names an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatCSV, FormatXLSX}

// Writer renders one parse result.
type Writer interface {
	Write(out io.Writer, res *parser.Result) error
}

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want one of text, json, yaml, csv, xlsx)", s)
}

// New returns the writer for format.
func New(format Format) (Writer, error) {
	switch format {
	case FormatText:
		return &TextWriter{}, nil
	case FormatJSON:
		return &JSONWriter{Indent: "  "}, nil
	case FormatYAML:
		return &YAMLWriter{}, nil
	case FormatCSV:
		return &CSVWriter{IncludeHeader: true}, nil
	case FormatXLSX:
		return &XLSXWriter{}, nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// WriteToFile renders res into a new file at path.
func WriteToFile(path string, w Writer, res *parser.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := w.Write(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
