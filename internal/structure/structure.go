// Package structure assembles the complete display tree of one profiling
// report: an "Overview" tab built by package overview, a "Variables"
// accordion and a footer.
package structure

import (
	"fmt"
	"html"
	"io"
	"log/slog"
	"os"

	"github.com/nao1215/profilereport/internal/identity"
	"github.com/nao1215/profilereport/internal/model"
	"github.com/nao1215/profilereport/internal/overview"
	"github.com/nao1215/profilereport/internal/presentation"
)

// Fixed names and anchors of the top-level sections.
const (
	RootName        = "Root"
	OverviewName    = "Overview"
	OverviewAnchor  = "overview"
	VariablesName   = "Variables"
	VariablesAnchor = "variables"
)

// builder holds the options of one Build call.
type builder struct {
	ids       identity.Generator
	variables VariablesSection
	logger    *slog.Logger
	progress  bool
	progressW io.Writer
	scope     string
}

// Option configures Build.
type Option func(*builder)

// WithIDs sets the identifier source used for section anchors.
func WithIDs(ids identity.Generator) Option {
	return func(b *builder) {
		b.ids = ids
	}
}

// WithVariables replaces the default variables section.
func WithVariables(v VariablesSection) Option {
	return func(b *builder) {
		b.variables = v
	}
}

// WithScope suffixes the fixed "overview" and "variables" anchors with
// scope so that several reports can share one page.
func WithScope(scope string) Option {
	return func(b *builder) {
		b.scope = scope
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *builder) {
		b.logger = logger
	}
}

// WithProgress enables the progress line written while the structure is
// assembled. It has no effect on the produced tree.
func WithProgress(enabled bool) Option {
	return func(b *builder) {
		b.progress = enabled
	}
}

// WithProgressWriter sets where progress is written. Defaults to os.Stderr.
func WithProgressWriter(w io.Writer) Option {
	return func(b *builder) {
		b.progressW = w
	}
}

// Build returns the display tree of a report for summary.
//
// Only the "table" section of the summary is required. Absent "messages"
// and "variables" sections produce an empty warning list and an empty
// Variables accordion.
func Build(summary *model.Summary, settings overview.Settings, opts ...Option) (*presentation.Root, error) {
	b := &builder{
		ids:       identity.Default(),
		variables: DefaultVariables{},
		progressW: os.Stderr,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}

	b.logger.Debug("generate report structure", "progress", b.progress)

	warnings, err := optionalWarnings(summary)
	if err != nil {
		return nil, err
	}

	items, err := overview.DatasetItems(summary, warnings, settings, b.ids)
	if err != nil {
		return nil, err
	}

	variables, err := b.variables.Variables(summary, b.ids)
	if err != nil {
		return nil, fmt.Errorf("variables section: %w", err)
	}

	body := presentation.NewContainer(RootName, "", presentation.Sections,
		presentation.NewContainer(OverviewName, b.anchor(OverviewAnchor), presentation.Tabs, items...),
		presentation.NewContainer(VariablesName, b.anchor(VariablesAnchor), presentation.Accordion, variables...),
	)
	root := presentation.NewRoot(RootName, body, Footer(settings.Engine))

	if err := presentation.ValidateAnchors(root); err != nil {
		return nil, err
	}

	if b.progress {
		fmt.Fprintln(b.progressW, "Generate report structure: 1/1") //nolint:errcheck // progress output is cosmetic
	}
	b.logger.Debug("report structure generated",
		"sections", len(items),
		"variables", len(variables),
	)

	return root, nil
}

func (b *builder) anchor(name string) string {
	if b.scope == "" {
		return name
	}
	return identity.Anchor(name, b.scope)
}

// Footer returns the fragment crediting the profiling engine.
func Footer(engine overview.Engine) *presentation.HTML {
	if engine.Name == "" {
		engine.Name = overview.DefaultEngineName
	}
	if engine.URL == "" {
		engine.URL = overview.DefaultEngineURL
	}
	return &presentation.HTML{
		Content: fmt.Sprintf(`Report generated with <a href="%s">%s</a>.`,
			html.EscapeString(engine.URL), html.EscapeString(engine.Name)),
	}
}

func optionalWarnings(summary *model.Summary) ([]model.Warning, error) {
	if !summary.Has("messages") {
		return []model.Warning{}, nil
	}
	return summary.Warnings()
}
