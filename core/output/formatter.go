package output

import (
	"fmt"
	"io"
	"strings"
)

// Format represents the output format
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// Formatter writes command results.
type Formatter interface {
	// Write outputs the data to the writer
	Write(w io.Writer, data any) error
}

// ParseFormat parses a format string. JSON is the default because scripts
// parse stdout.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "table":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: json, yaml, table)", s)
	}
}

// NewFormatter creates a new formatter for the given format.
// fields selects the table columns and is ignored by the other formats.
func NewFormatter(format Format, fields ...string) Formatter {
	switch format {
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatTable:
		return &TableFormatter{Fields: fields}
	default:
		return &JSONFormatter{}
	}
}
