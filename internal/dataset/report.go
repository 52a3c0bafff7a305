package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/profilereport/internal/presentation"
	"github.com/nao1215/profilereport/internal/render"
	"github.com/nao1215/profilereport/internal/report"
)

// ErrWrite is returned when a rendered page cannot be persisted.
var ErrWrite = errors.New("failed to write report")

// diagramKeywords start a mermaid diagram.
var diagramKeywords = []string{
	"graph", "flowchart", "sequenceDiagram", "classDiagram", "stateDiagram",
	"stateDiagram-v2", "erDiagram", "journey", "gantt", "pie", "gitGraph",
	"mindmap", "timeline",
}

// DataSetReport renders several datasets and their lineage on one page.
type DataSetReport struct {
	name     string
	id       string
	datasets []*DataSet
	lineage  string
	opts     options
}

// NewDataSetReport returns a report over a copy of datasets.
func NewDataSetReport(name string, datasets []*DataSet, opts ...Option) *DataSetReport {
	o := newOptions(opts)
	return &DataSetReport{
		name:     name,
		id:       o.ids.NewID(),
		datasets: append([]*DataSet(nil), datasets...),
		lineage:  NormalizeLineage(o.lineage),
		opts:     o,
	}
}

// Name returns the report name.
func (r *DataSetReport) Name() string { return r.name }

// ID returns the identifier generated at construction.
func (r *DataSetReport) ID() string { return r.id }

// Lineage returns the normalized lineage diagram, or "".
func (r *DataSetReport) Lineage() string { return r.lineage }

// DataSets returns the grouped datasets in order.
func (r *DataSetReport) DataSets() []*DataSet {
	return append([]*DataSet(nil), r.datasets...)
}

// pageView is the data passed to dataset.html.
type pageView struct {
	Name     string
	ID       string
	Datasets []*DataSet
	Lineage  string
}

// Render returns the combined HTML document. Profiles added without
// WithScope get a scope on first render; after that repeated calls return
// identical text.
func (r *DataSetReport) Render() (string, error) {
	r.scopeProfiles()
	r.opts.logger.Debug("render dataset report",
		"name", r.name,
		"datasets", len(r.datasets),
		"lineage", r.lineage != "",
	)

	return r.opts.renderer.Execute(render.DatasetTemplate, pageView{
		Name:     r.name,
		ID:       r.id,
		Datasets: r.datasets,
		Lineage:  r.lineage,
	})
}

// WriteToFile renders the page and writes it to "<name>.html", where name
// defaults to the report name. An existing file is replaced. It returns
// the path written.
func (r *DataSetReport) WriteToFile(name string) (string, error) {
	if name == "" {
		name = r.name
	}
	path := name + ".html"

	text, err := r.Render()
	if err != nil {
		return "", err
	}
	if err := writeFile(path, []byte(text)); err != nil {
		return "", err
	}

	r.opts.logger.Info("dataset report written", "path", path)
	return path, nil
}

// Collection converts the report for the text, JSON and Markdown writers.
// Reports that are not profiles are carried as their rendered HTML.
func (r *DataSetReport) Collection() (report.Collection, error) {
	c := report.Collection{
		Name:    r.name,
		ID:      r.id,
		Lineage: r.lineage,
		Sets:    make([]report.Set, 0, len(r.datasets)),
	}

	r.scopeProfiles()
	for _, ds := range r.datasets {
		set := report.Set{Name: ds.Name(), ID: ds.ID()}
		for _, rep := range ds.Reports() {
			page, err := toPage(rep)
			if err != nil {
				return report.Collection{}, err
			}
			set.Pages = append(set.Pages, page)
		}
		c.Sets = append(c.Sets, set)
	}
	return c, nil
}

// scopeProfiles scopes every unscoped Profile on the page so that the
// top-level anchors of different reports do not collide.
func (r *DataSetReport) scopeProfiles() {
	for _, ds := range r.datasets {
		for _, rep := range ds.reports {
			p, ok := rep.(*Profile)
			if !ok {
				continue
			}
			if !p.scopeIfUnset(r.opts.ids.NewID) {
				r.opts.logger.Warn("profile built without a scope, its anchors may collide",
					"dataset", ds.name,
					"report", p.title,
				)
			}
		}
	}
}

func toPage(rep Report) (report.Page, error) {
	if p, ok := rep.(interface{ ReportPage() (report.Page, error) }); ok {
		return p.ReportPage()
	}

	fragment, err := rep.HTML()
	if err != nil {
		return report.Page{}, err
	}
	body := presentation.NewContainer("Root", "", presentation.Sections,
		&presentation.HTML{Content: string(fragment)})
	return report.Page{Title: rep.Title(), Root: presentation.NewRoot("Root", body, nil)}, nil
}

// NormalizeLineage trims lineage and prefixes "graph LR" when it does not
// start with a mermaid diagram type.
func NormalizeLineage(lineage string) string {
	lineage = strings.TrimSpace(lineage)
	if lineage == "" {
		return ""
	}

	first := strings.Fields(lineage)[0]
	for _, keyword := range diagramKeywords {
		if first == keyword {
			return lineage
		}
	}
	return "graph LR\n" + lineage
}

// writeFile replaces path with data through a temporary file in the same
// directory, so readers never observe a partial page.
func writeFile(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:gosec // reports are meant to be shared
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
