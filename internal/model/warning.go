package model

import (
	"encoding/json"
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

// MessageType is the kind of a data-quality warning.
type MessageType int

const (
	// MessageTypeUnknown is used for names the builder does not recognise.
	MessageTypeUnknown MessageType = iota

	// MessageTypeConstant marks a column with a single distinct value.
	MessageTypeConstant

	// MessageTypeZeros marks a column with many zeros.
	MessageTypeZeros

	// MessageTypeHighCorrelation marks a column highly correlated with another.
	MessageTypeHighCorrelation

	// MessageTypeHighCardinality marks a categorical column with many distinct values.
	MessageTypeHighCardinality

	// MessageTypeUnsupported marks a column whose type could not be analysed.
	MessageTypeUnsupported

	// MessageTypeDuplicates marks a dataset with duplicate rows.
	MessageTypeDuplicates

	// MessageTypeSkewed marks a highly skewed numeric column.
	MessageTypeSkewed

	// MessageTypeMissing marks a column with missing values.
	MessageTypeMissing

	// MessageTypeInfinite marks a column with infinite values.
	MessageTypeInfinite

	// MessageTypeTypeDate marks a column that looks like a date but is stored as text.
	MessageTypeTypeDate

	// MessageTypeUnique marks a column whose values are all distinct.
	MessageTypeUnique

	// MessageTypeConstantLength marks a text column where every value has the same length.
	MessageTypeConstantLength

	// MessageTypeRejected marks a column excluded from analysis.
	// Rejected warnings are listed but not counted in the section title.
	MessageTypeRejected

	// MessageTypeUniform marks a uniformly distributed column.
	MessageTypeUniform

	// MessageTypeEmpty marks a dataset without rows.
	MessageTypeEmpty
)

// messageTypeInfo holds the wire name and the phrase shown next to the column.
type messageTypeInfo struct {
	name   string
	phrase string
}

var messageTypes = map[MessageType]messageTypeInfo{
	MessageTypeConstant:        {"CONSTANT", "has constant value"},
	MessageTypeZeros:           {"ZEROS", "has many zeros"},
	MessageTypeHighCorrelation: {"HIGH_CORRELATION", "is highly correlated"},
	MessageTypeHighCardinality: {"HIGH_CARDINALITY", "has a high cardinality"},
	MessageTypeUnsupported:     {"UNSUPPORTED", "is an unsupported type, check if it needs cleaning or further analysis"},
	MessageTypeDuplicates:      {"DUPLICATES", "has duplicate rows"},
	MessageTypeSkewed:          {"SKEWED", "is highly skewed"},
	MessageTypeMissing:         {"MISSING", "has missing values"},
	MessageTypeInfinite:        {"INFINITE", "has infinite values"},
	MessageTypeTypeDate:        {"TYPE_DATE", "only contains datetime values, but is categorical"},
	MessageTypeUnique:          {"UNIQUE", "has unique values"},
	MessageTypeConstantLength:  {"CONSTANT_LENGTH", "has constant length"},
	MessageTypeRejected:        {"REJECTED", "is rejected"},
	MessageTypeUniform:         {"UNIFORM", "is uniformly distributed"},
	MessageTypeEmpty:           {"EMPTY", "is empty"},
}

// String returns the wire name of the message type, e.g. "HIGH_CORRELATION".
func (m MessageType) String() string {
	if info, ok := messageTypes[m]; ok {
		return info.name
	}
	return "UNKNOWN"
}

// Phrase returns the human readable description used in rendered warnings.
func (m MessageType) Phrase() string {
	if info, ok := messageTypes[m]; ok {
		return info.phrase
	}
	return "has an unknown issue"
}

// ParseMessageType converts a wire name to a MessageType.
// Matching is case-insensitive and accepts an optional "MessageType." prefix.
func ParseMessageType(s string) MessageType {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "MESSAGETYPE.")
	for t, info := range messageTypes {
		if info.name == s {
			return t
		}
	}
	return MessageTypeUnknown
}

// MarshalJSON encodes the message type as its wire name.
func (m MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// Warning is one data-quality message from the summary.
type Warning struct {
	// Type is the message kind.
	Type MessageType `json:"message_type"`

	// Column is the column the warning applies to; empty for dataset-level warnings.
	Column string `json:"column_name,omitempty"`

	// Values holds the statistics that triggered the warning, if the engine
	// included them.
	Values map[string]any `json:"values,omitempty"`
}

// IsRejected reports whether the warning marks a rejected column.
func (w Warning) IsRejected() bool {
	return w.Type == MessageTypeRejected
}

// CountWarnings returns the number of warnings excluding rejected ones.
func CountWarnings(warnings []Warning) int {
	count := 0
	for _, w := range warnings {
		if !w.IsRejected() {
			count++
		}
	}
	return count
}

// warningDoc is the on-disk shape of a warning.
type warningDoc struct {
	MessageType string         `yaml:"message_type"`
	ColumnName  string         `yaml:"column_name"`
	Values      map[string]any `yaml:"values"`
}

var errNoMessageType = errors.New("message_type is required")

func decodeWarning(n *yaml.Node) (Warning, error) {
	n = resolveAlias(n)
	if n.Kind == yaml.ScalarNode {
		return Warning{Type: ParseMessageType(n.Value)}, nil
	}

	var doc warningDoc
	if err := n.Decode(&doc); err != nil {
		return Warning{}, err
	}
	if doc.MessageType == "" {
		return Warning{}, errNoMessageType
	}

	return Warning{
		Type:   ParseMessageType(doc.MessageType),
		Column: doc.ColumnName,
		Values: doc.Values,
	}, nil
}
