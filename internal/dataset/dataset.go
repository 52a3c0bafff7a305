package dataset

import (
	"fmt"
	"html/template"

	"github.com/nao1215/profilereport/internal/identity"
)

// Report is a rendered report that can be grouped in a DataSet.
type Report interface {
	// Title is the heading shown above the report.
	Title() string

	// HTML returns the report body as an HTML fragment.
	HTML() (template.HTML, error)
}

// DataSet is a named, ordered group of reports.
type DataSet struct {
	name    string
	id      string
	reports []Report
}

// NewDataSet returns a DataSet holding a copy of reports.
// The identifier is generated once here and never changes.
func NewDataSet(name string, reports []Report, opts ...Option) *DataSet {
	o := newOptions(opts)
	return &DataSet{
		name:    name,
		id:      o.ids.NewID(),
		reports: append([]Report(nil), reports...),
	}
}

// AddReport appends report.
func (d *DataSet) AddReport(report Report) {
	d.reports = append(d.reports, report)
}

// Name returns the dataset name.
func (d *DataSet) Name() string { return d.name }

// ID returns the identifier generated at construction.
func (d *DataSet) ID() string { return d.id }

// AnchorID returns the element id of the dataset section, "set_<id>" with
// the id made safe for a URL fragment.
func (d *DataSet) AnchorID() string { return identity.Anchor("set", d.id) }

// Reports returns the reports in the order they were added.
func (d *DataSet) Reports() []Report {
	return append([]Report(nil), d.reports...)
}

// String returns "<name> - <id>".
func (d *DataSet) String() string {
	return fmt.Sprintf("%s - %s", d.name, d.id)
}
