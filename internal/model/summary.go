package model

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Summary is the precomputed statistics document for one dataset.
// It is produced by an external profiling engine (as JSON or YAML) and is
// never modified after decoding.
//
// Well-known sections:
//   - table:     dataset level counts (n, n_var, n_cells_missing, types, ...)
//   - package:   engine version and the configuration dump used for the run
//   - analysis:  start/end timestamps and duration of the run
//   - messages:  data-quality warnings
//   - variables: per-column statistics
type Summary struct {
	// root is the top-level mapping node of the decoded document.
	root *yaml.Node
}

// Entry is one key/value pair of a summary mapping, in document order.
type Entry struct {
	Key   string
	Value any
}

// ParseSummary decodes a summary document. JSON input is accepted since
// JSON documents are valid YAML.
func ParseSummary(data []byte) (*Summary, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSummary, err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidSummary)
		}
		root = root.Content[0]
	}

	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level is not a mapping", ErrInvalidSummary)
	}

	return &Summary{root: root}, nil
}

// LoadSummary reads and decodes a summary document from r.
func LoadSummary(r io.Reader) (*Summary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary: %w", err)
	}
	return ParseSummary(data)
}

// LoadSummaryFile reads and decodes the summary document at path.
func LoadSummaryFile(path string) (*Summary, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided summary path is intentional
	if err != nil {
		return nil, err
	}

	s, err := ParseSummary(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Has reports whether the path exists in the summary.
func (s *Summary) Has(path ...string) bool {
	_, err := s.node(path)
	return err == nil
}

// Int returns the integer at path. A float with no fractional part, such as
// 100.0, is accepted; 3.7 is an ErrInvalidValue.
func (s *Summary) Int(path ...string) (int64, error) {
	n, err := s.node(path)
	if err != nil {
		return 0, err
	}

	if n.Kind == yaml.ScalarNode && n.Tag == "!!float" {
		var f float64
		if err := n.Decode(&f); err != nil {
			return 0, invalidValue(path, err)
		}
		if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
			return 0, &KeyError{Path: joinPath(path), Err: ErrInvalidValue, Detail: "not an integer: " + n.Value}
		}
		return int64(f), nil
	}

	var v int64
	if err := n.Decode(&v); err != nil {
		return 0, invalidValue(path, err)
	}
	return v, nil
}

// Float returns the number at path as a float64. Integers are accepted.
func (s *Summary) Float(path ...string) (float64, error) {
	n, err := s.node(path)
	if err != nil {
		return 0, err
	}

	var v float64
	if err := n.Decode(&v); err != nil {
		return 0, invalidValue(path, err)
	}
	return v, nil
}

// String returns the scalar at path as written in the document.
// A null scalar yields the empty string.
func (s *Summary) String(path ...string) (string, error) {
	n, err := s.node(path)
	if err != nil {
		return "", err
	}

	if n.Kind != yaml.ScalarNode {
		return "", &KeyError{Path: joinPath(path), Err: ErrInvalidValue, Detail: "not a scalar"}
	}
	if n.Tag == "!!null" {
		return "", nil
	}
	return n.Value, nil
}

// Value returns the decoded value at path: a scalar (int, float64, string,
// bool, nil), a []any or a map[string]any.
func (s *Summary) Value(path ...string) (any, error) {
	n, err := s.node(path)
	if err != nil {
		return nil, err
	}

	var v any
	if err := n.Decode(&v); err != nil {
		return nil, invalidValue(path, err)
	}
	return v, nil
}

// Keys returns the keys of the mapping at path in document order.
func (s *Summary) Keys(path ...string) ([]string, error) {
	n, err := s.mapping(path)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}
	return keys, nil
}

// Entries returns the key/value pairs of the mapping at path in document order.
func (s *Summary) Entries(path ...string) ([]Entry, error) {
	n, err := s.mapping(path)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value

		var v any
		if err := n.Content[i+1].Decode(&v); err != nil {
			return nil, invalidValue(append(append([]string{}, path...), key), err)
		}
		entries = append(entries, Entry{Key: key, Value: v})
	}
	return entries, nil
}

// Sub returns the nested mapping at path as its own Summary.
func (s *Summary) Sub(path ...string) (*Summary, error) {
	n, err := s.mapping(path)
	if err != nil {
		return nil, err
	}
	return &Summary{root: n}, nil
}

// Warnings decodes the "messages" section. Each element is either a mapping
// with a message_type field or a bare message type name.
func (s *Summary) Warnings() ([]Warning, error) {
	n, err := s.node([]string{"messages"})
	if err != nil {
		return nil, err
	}

	if n.Tag == "!!null" {
		return []Warning{}, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, &KeyError{Path: "messages", Err: ErrInvalidValue, Detail: "not a sequence"}
	}

	warnings := make([]Warning, 0, len(n.Content))
	for i, item := range n.Content {
		w, err := decodeWarning(item)
		if err != nil {
			return nil, &KeyError{Path: fmt.Sprintf("messages.%d", i), Err: ErrInvalidValue, Detail: err.Error()}
		}
		warnings = append(warnings, w)
	}
	return warnings, nil
}

// node walks the mapping tree along path.
func (s *Summary) node(path []string) (*yaml.Node, error) {
	n := s.root
	for i, key := range path {
		n = resolveAlias(n)
		if n.Kind != yaml.MappingNode {
			return nil, &KeyError{Path: joinPath(path[:i+1]), Err: ErrInvalidValue, Detail: "parent is not a mapping"}
		}

		child := mappingValue(n, key)
		if child == nil {
			return nil, &KeyError{Path: joinPath(path[:i+1]), Err: ErrMissingKey}
		}
		n = child
	}
	return resolveAlias(n), nil
}

// mapping returns the node at path, which must be a mapping.
func (s *Summary) mapping(path []string) (*yaml.Node, error) {
	n, err := s.node(path)
	if err != nil {
		return nil, err
	}
	if n.Kind != yaml.MappingNode {
		return nil, &KeyError{Path: joinPath(path), Err: ErrInvalidValue, Detail: "not a mapping"}
	}
	return n, nil
}

// mappingValue returns the value node for key, or nil.
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func joinPath(path []string) string {
	if len(path) == 0 {
		return "."
	}
	return strings.Join(path, ".")
}

func invalidValue(path []string, err error) error {
	return &KeyError{Path: joinPath(path), Err: ErrInvalidValue, Detail: err.Error()}
}
