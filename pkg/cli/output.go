package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
)

// Formatter formats command output.
type Formatter interface {
	FormatTo(w io.Writer, data interface{}) error
}

// TextFormatter formats output as plain text. Types implementing
// fmt.Stringer render through String.
type TextFormatter struct{}

// FormatTo writes data to writer in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data interface{}) error {
	_, err := fmt.Fprintf(w, "%v\n", data)
	return err
}

// JSONFormatter formats output as indented JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes data to writer as JSON.
func (f *JSONFormatter) FormatTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// NewFormatter creates a formatter for the given format. Unknown
// formats fall back to text.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	default:
		return &TextFormatter{}
	}
}
