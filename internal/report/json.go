package report

import (
	"encoding/json"
	"io"
)

// JSONWriter outputs display trees in JSON format.
// Every node carries a "type" field naming its variant.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is written next to the report when set.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the generating tool version in the output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONDocument wraps a page or collection with the tool version.
type JSONDocument struct {
	// Version is the profilereport version that produced the document.
	Version string `json:"version,omitempty"`

	// Page is set when a single report is written.
	Page *Page `json:"page,omitempty"`

	// Collection is set when a group of reports is written.
	Collection *Collection `json:"collection,omitempty"`
}

// Write outputs one report in JSON format.
func (w *JSONWriter) Write(page Page) (int, error) {
	return w.writeJSON(JSONDocument{Version: w.version, Page: &page})
}

// WriteCollection outputs a collection in JSON format.
func (w *JSONWriter) WriteCollection(c Collection) (int, error) {
	return w.writeJSON(JSONDocument{Version: w.version, Collection: &c})
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
