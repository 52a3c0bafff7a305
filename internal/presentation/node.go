// Package presentation defines the display-node tree that describes a report
// independently of the output format.
//
// The tree is a closed sum type: Node is implemented only by *Table,
// *Container, *Warnings, *HTML and *Root. Renderers switch on the concrete
// type; there is no open-ended dispatch.
//
// Nodes are plain values built fresh for every report. A node must not be
// shared between two trees.
package presentation

import (
	"encoding/json"

	"github.com/nao1215/profilereport/internal/format"
	"github.com/nao1215/profilereport/internal/model"
)

// Kind names a node variant. It is written as the "type" field in JSON.
type Kind string

// Node kinds, one per variant.
const (
	// KindTable is a name/value table.
	KindTable Kind = "table"
	// KindContainer groups child nodes.
	KindContainer Kind = "container"
	// KindWarnings lists summary warnings.
	KindWarnings Kind = "warnings"
	// KindHTML is a raw HTML fragment.
	KindHTML Kind = "html"
	// KindRoot is the top of a report tree.
	KindRoot Kind = "root"
)

// SequenceType controls how a container lays out its children.
type SequenceType string

const (
	// Tabs shows one child at a time behind a tab strip.
	Tabs SequenceType = "tabs"

	// Accordion shows collapsible children.
	Accordion SequenceType = "accordion"

	// Grid shows children side by side.
	Grid SequenceType = "grid"

	// Sections shows children one after another with headings.
	Sections SequenceType = "sections"

	// List shows children one after another without headings.
	List SequenceType = "list"
)

// Node is a renderable unit of a report.
type Node interface {
	// Kind returns the variant of the node.
	Kind() Kind

	// isNode closes the set of implementations to this package.
	isNode()
}

// Row is one name/value line of a Table.
type Row struct {
	Name  string           `json:"name"`
	Value any              `json:"value"`
	Fmt   format.Directive `json:"fmt"`
}

// Text returns the formatted value.
func (r Row) Text() string {
	return r.Fmt.Apply(r.Value)
}

// Table is an ordered list of rows.
type Table struct {
	Name     string
	AnchorID string
	Rows     []Row
}

// Container groups child nodes.
type Container struct {
	Name     string
	AnchorID string
	Sequence SequenceType
	Items    []Node
}

// Warnings lists data-quality warnings.
type Warnings struct {
	Name     string
	AnchorID string
	Items    []model.Warning
}

// HTML is a pre-rendered fragment that is emitted without escaping.
type HTML struct {
	Content string
}

// Root is the whole report: a body container and a footer.
type Root struct {
	Name   string
	Body   *Container
	Footer *HTML
}

// NewTable returns a table with the given rows.
func NewTable(name, anchorID string, rows ...Row) *Table {
	return &Table{Name: name, AnchorID: anchorID, Rows: rows}
}

// NewContainer returns a container with the given children.
func NewContainer(name, anchorID string, sequence SequenceType, items ...Node) *Container {
	return &Container{Name: name, AnchorID: anchorID, Sequence: sequence, Items: items}
}

// NewRoot returns a report root.
func NewRoot(name string, body *Container, footer *HTML) *Root {
	return &Root{Name: name, Body: body, Footer: footer}
}

// Kind returns KindTable.
func (*Table) Kind() Kind { return KindTable }

// Kind returns KindContainer.
func (*Container) Kind() Kind { return KindContainer }

// Kind returns KindWarnings.
func (*Warnings) Kind() Kind { return KindWarnings }

// Kind returns KindHTML.
func (*HTML) Kind() Kind { return KindHTML }

// Kind returns KindRoot.
func (*Root) Kind() Kind { return KindRoot }

func (*Table) isNode()     {}
func (*Container) isNode() {}
func (*Warnings) isNode()  {}
func (*HTML) isNode()      {}
func (*Root) isNode()      {}

// MarshalJSON encodes the table with its kind.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     Kind   `json:"type"`
		Name     string `json:"name"`
		AnchorID string `json:"anchor_id,omitempty"`
		Rows     []Row  `json:"rows"`
	}{KindTable, t.Name, t.AnchorID, nonNilRows(t.Rows)})
}

// MarshalJSON encodes the container with its kind.
func (c *Container) MarshalJSON() ([]byte, error) {
	items := c.Items
	if items == nil {
		items = []Node{}
	}
	return json.Marshal(struct {
		Type     Kind         `json:"type"`
		Name     string       `json:"name"`
		AnchorID string       `json:"anchor_id,omitempty"`
		Sequence SequenceType `json:"sequence_type"`
		Items    []Node       `json:"items"`
	}{KindContainer, c.Name, c.AnchorID, c.Sequence, items})
}

// MarshalJSON encodes the warning list with its kind.
func (w *Warnings) MarshalJSON() ([]byte, error) {
	items := w.Items
	if items == nil {
		items = []model.Warning{}
	}
	return json.Marshal(struct {
		Type     Kind            `json:"type"`
		Name     string          `json:"name"`
		AnchorID string          `json:"anchor_id,omitempty"`
		Items    []model.Warning `json:"warnings"`
	}{KindWarnings, w.Name, w.AnchorID, items})
}

// MarshalJSON encodes the fragment with its kind.
func (h *HTML) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    Kind   `json:"type"`
		Content string `json:"content"`
	}{KindHTML, h.Content})
}

// MarshalJSON encodes the root with its kind.
func (r *Root) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   Kind       `json:"type"`
		Name   string     `json:"name"`
		Body   *Container `json:"body"`
		Footer *HTML      `json:"footer,omitempty"`
	}{KindRoot, r.Name, r.Body, r.Footer})
}

func nonNilRows(rows []Row) []Row {
	if rows == nil {
		return []Row{}
	}
	return rows
}
