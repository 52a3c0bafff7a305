// Package render turns display trees into HTML with html/template.
//
// Every node variant has its own template (table.html, warnings.html,
// container_<sequence>.html, root.html). Full pages use report.html and
// dataset pages use dataset.html. Templates are looked up in an ordered list
// of sources so that a project can override any of them.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/nao1215/profilereport/internal/format"
	"github.com/nao1215/profilereport/internal/presentation"
)

// Template names.
const (
	ReportTemplate  = "report.html"
	DatasetTemplate = "dataset.html"
	RootTemplate    = "root.html"
	TableTemplate   = "table.html"
	WarningTemplate = "warnings.html"
)

// ErrUnknownNode is returned for nil nodes.
var ErrUnknownNode = errors.New("unknown display node")

// Renderer renders display nodes. Parsed templates are cached, so a
// Renderer is not safe for concurrent use.
type Renderer struct {
	sources Sources
	logger  *slog.Logger
	cache   map[string]*template.Template
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// New returns a Renderer reading templates from sources.
// An empty list falls back to the built-in templates.
func New(sources Sources, opts ...Option) *Renderer {
	if len(sources) == 0 {
		sources = Sources{Builtin()}
	}
	r := &Renderer{
		sources: sources,
		cache:   make(map[string]*template.Template),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Sources returns the template search path.
func (r *Renderer) Sources() Sources {
	return r.sources
}

// FuncMap returns the functions available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		string(format.Plain):    format.Value,
		string(format.Number):   format.FormatNumber,
		string(format.Numeric):  format.FormatNumeric,
		string(format.Percent):  format.FormatPercent,
		string(format.Bytesize): format.FormatBytesize,
		string(format.Timespan): format.FormatTimespan,
		"cell":                  cell,
		"lower":                 strings.ToLower,
	}
}

// cell formats a table row. Raw rows are trusted HTML built by the
// section builders.
func cell(row presentation.Row) any {
	if row.Fmt.IsRaw() {
		return template.HTML(format.Value(row.Value)) //nolint:gosec // raw rows carry pre-escaped HTML
	}
	return row.Text()
}

// Execute renders the named template with data.
func (r *Renderer) Execute(name string, data any) (string, error) {
	tmpl, err := r.template(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute %s: %w", name, err)
	}
	return buf.String(), nil
}

// Node renders one node and its descendants.
func (r *Renderer) Node(n presentation.Node) (template.HTML, error) {
	switch v := n.(type) {
	case *presentation.Table:
		if v != nil {
			return r.fragment(TableTemplate, v)
		}
	case *presentation.Warnings:
		if v != nil {
			return r.fragment(WarningTemplate, v)
		}
	case *presentation.HTML:
		if v != nil {
			return template.HTML(v.Content), nil //nolint:gosec // HTML nodes are pre-rendered fragments
		}
	case *presentation.Container:
		if v != nil {
			return r.container(v)
		}
	case *presentation.Root:
		if v != nil {
			return r.root(v)
		}
	}
	return "", fmt.Errorf("%w: %T", ErrUnknownNode, n)
}

// Fragment renders the body and footer of a report without the page shell.
func (r *Renderer) Fragment(root *presentation.Root) (template.HTML, error) {
	return r.Node(root)
}

// navLink is one entry of the page navigation.
type navLink struct {
	Name     string
	AnchorID string
}

// pageView is the data passed to report.html.
type pageView struct {
	Title    string
	Nav      []navLink
	Fragment template.HTML
}

// Page renders a complete HTML document for root.
func (r *Renderer) Page(root *presentation.Root, title string) (string, error) {
	fragment, err := r.Fragment(root)
	if err != nil {
		return "", err
	}

	view := pageView{Title: title, Fragment: fragment}
	if root.Body != nil {
		for _, item := range root.Body.Items {
			if id := presentation.AnchorID(item); id != "" {
				view.Nav = append(view.Nav, navLink{Name: presentation.Name(item), AnchorID: id})
			}
		}
	}
	return r.Execute(ReportTemplate, view)
}

// itemView is a rendered child of a container.
type itemView struct {
	Name     string
	AnchorID string
	HTML     template.HTML
}

// containerView is the data passed to container templates.
type containerView struct {
	Name     string
	AnchorID string
	Sequence presentation.SequenceType
	Items    []itemView
}

func (r *Renderer) container(c *presentation.Container) (template.HTML, error) {
	view := containerView{
		Name:     c.Name,
		AnchorID: c.AnchorID,
		Sequence: c.Sequence,
		Items:    make([]itemView, 0, len(c.Items)),
	}
	for _, item := range c.Items {
		html, err := r.Node(item)
		if err != nil {
			return "", err
		}
		view.Items = append(view.Items, itemView{
			Name:     presentation.Name(item),
			AnchorID: presentation.AnchorID(item),
			HTML:     html,
		})
	}
	return r.fragment(ContainerTemplate(c.Sequence), view)
}

// ContainerTemplate returns the template name for a sequence type.
func ContainerTemplate(seq presentation.SequenceType) string {
	if seq == "" {
		seq = presentation.List
	}
	return "container_" + string(seq) + ".html"
}

// rootView is the data passed to root.html.
type rootView struct {
	Name   string
	Body   template.HTML
	Footer template.HTML
}

func (r *Renderer) root(root *presentation.Root) (template.HTML, error) {
	view := rootView{Name: root.Name}
	if root.Body != nil {
		body, err := r.Node(root.Body)
		if err != nil {
			return "", err
		}
		view.Body = body
	}
	if root.Footer != nil {
		view.Footer = template.HTML(root.Footer.Content) //nolint:gosec // footer is a pre-rendered fragment
	}
	return r.fragment(RootTemplate, view)
}

func (r *Renderer) fragment(name string, data any) (template.HTML, error) {
	out, err := r.Execute(name, data)
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil //nolint:gosec // output of html/template
}

// template returns the parsed template for name, loading it on first use.
func (r *Renderer) template(name string) (*template.Template, error) {
	if tmpl, ok := r.cache[name]; ok {
		return tmpl, nil
	}

	text, err := r.sources.ReadTemplate(name)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Funcs(FuncMap()).Parse(string(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	r.logger.Debug("template loaded", "name", name)
	r.cache[name] = tmpl
	return tmpl, nil
}
