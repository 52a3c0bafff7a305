package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/nao1215/profilereport/internal/model"
	"github.com/nao1215/profilereport/internal/overview"
	"github.com/nao1215/profilereport/internal/presentation"
	"github.com/nao1215/profilereport/internal/report"
	"github.com/nao1215/profilereport/internal/structure"
)

// ErrUnsupportedFormat is returned by ToFile for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Profile is the report of one summary.
//
// The display tree is built on first use and the rendered fragment is
// cached, so every later call returns identical output.
type Profile struct {
	title    string
	summary  *model.Summary
	settings overview.Settings
	opts     options

	root     *presentation.Root
	fragment template.HTML
	rendered bool
}

// NewProfile returns a Profile for summary. Nothing is built until the
// report is first requested.
func NewProfile(title string, summary *model.Summary, settings overview.Settings, opts ...Option) *Profile {
	return &Profile{
		title:    title,
		summary:  summary,
		settings: settings,
		opts:     newOptions(opts),
	}
}

// Title returns the report title.
func (p *Profile) Title() string { return p.title }

// Structure returns the display tree, building it on first call.
func (p *Profile) Structure() (*presentation.Root, error) {
	if p.root != nil {
		return p.root, nil
	}

	buildOpts := []structure.Option{
		structure.WithIDs(p.opts.ids),
		structure.WithLogger(p.opts.logger),
		structure.WithProgress(p.opts.progress),
		structure.WithScope(p.opts.scope),
	}
	if p.opts.variables != nil {
		buildOpts = append(buildOpts, structure.WithVariables(p.opts.variables))
	}

	root, err := structure.Build(p.summary, p.settings, buildOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.title, err)
	}
	p.root = root
	return root, nil
}

// scopeIfUnset gives a Profile without a scope the one returned by next,
// unless its structure is already built. It reports whether the Profile
// ends up scoped.
func (p *Profile) scopeIfUnset(next func() string) bool {
	if p.opts.scope != "" {
		return true
	}
	if p.root != nil {
		return false
	}
	p.opts.scope = next()
	return true
}

// HTML returns the rendered report body and footer.
func (p *Profile) HTML() (template.HTML, error) {
	if p.rendered {
		return p.fragment, nil
	}

	root, err := p.Structure()
	if err != nil {
		return "", err
	}
	fragment, err := p.opts.renderer.Fragment(root)
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.title, err)
	}

	p.fragment = fragment
	p.rendered = true
	return fragment, nil
}

// Page returns the report as a complete HTML document.
func (p *Profile) Page() (string, error) {
	root, err := p.Structure()
	if err != nil {
		return "", err
	}
	return p.opts.renderer.Page(root, p.title)
}

// ReportPage returns the report in the form consumed by report writers.
func (p *Profile) ReportPage() (report.Page, error) {
	root, err := p.Structure()
	if err != nil {
		return report.Page{}, err
	}
	return report.Page{Title: p.title, Root: root}, nil
}

// ToJSON returns the display tree as indented JSON.
func (p *Profile) ToJSON() (string, error) {
	return p.export(func(buf *bytes.Buffer) report.Writer {
		return report.NewJSONWriter(buf, report.WithPrettyPrint(), report.WithVersion(p.opts.version))
	})
}

// ToMarkdown returns the report as GitHub-flavored Markdown.
func (p *Profile) ToMarkdown() (string, error) {
	return p.export(func(buf *bytes.Buffer) report.Writer {
		return report.NewMarkdownWriter(buf)
	})
}

func (p *Profile) export(newWriter func(*bytes.Buffer) report.Writer) (string, error) {
	page, err := p.ReportPage()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := newWriter(&buf).Write(page); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ToFile writes the report to path in the format named by its extension:
// .html/.htm, .json or .md/.markdown.
func (p *Profile) ToFile(path string) error {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err = p.Page()
	case ".json":
		text, err = p.ToJSON()
	case ".md", ".markdown":
		text, err = p.ToMarkdown()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return err
	}

	p.opts.logger.Debug("write report", "title", p.title, "path", path)
	return writeFile(path, []byte(text))
}
