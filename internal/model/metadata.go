package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Metadata holds descriptive, dataset-level fields shown in the report's
// "Dataset" section. Every field is optional; empty values are not shown.
type Metadata struct {
	Description     string `yaml:"description,omitempty" json:"description,omitempty"`
	Creator         string `yaml:"creator,omitempty" json:"creator,omitempty"`
	Author          string `yaml:"author,omitempty" json:"author,omitempty"`
	URL             string `yaml:"url,omitempty" json:"url,omitempty"`
	CopyrightHolder string `yaml:"copyright_holder,omitempty" json:"copyright_holder,omitempty"`
	CopyrightYear   string `yaml:"copyright_year,omitempty" json:"copyright_year,omitempty"`
}

// HasAny reports whether at least one field is non-empty.
func (m Metadata) HasAny() bool {
	for _, v := range []string{m.Description, m.Creator, m.Author, m.URL, m.CopyrightHolder, m.CopyrightYear} {
		if v != "" {
			return true
		}
	}
	return false
}

// ColumnDescription is a free-text description of one column.
type ColumnDescription struct {
	Column      string `json:"column"`
	Description string `json:"description"`
}

// Descriptions is an ordered list of column descriptions. In configuration
// files it is written as a mapping from column name to text; the mapping order
// is kept.
type Descriptions []ColumnDescription

// UnmarshalYAML decodes a column-name to description mapping in document order.
func (d *Descriptions) UnmarshalYAML(n *yaml.Node) error {
	if n.Tag == "!!null" {
		*d = nil
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: column descriptions must be a mapping", n.Line)
	}

	out := make(Descriptions, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		var text string
		if err := n.Content[i+1].Decode(&text); err != nil {
			return fmt.Errorf("column %q: %w", n.Content[i].Value, err)
		}
		out = append(out, ColumnDescription{Column: n.Content[i].Value, Description: text})
	}
	*d = out
	return nil
}

// MarshalYAML encodes the descriptions back to an ordered mapping.
func (d Descriptions) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, c := range d {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Column},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Description},
		)
	}
	return n, nil
}
