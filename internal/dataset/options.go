package dataset

import (
	"log/slog"

	"github.com/nao1215/profilereport/internal/identity"
	"github.com/nao1215/profilereport/internal/render"
	"github.com/nao1215/profilereport/internal/structure"
)

// options is shared by the constructors of this package. Each constructor
// reads only the fields it needs.
type options struct {
	ids       identity.Generator
	renderer  *render.Renderer
	logger    *slog.Logger
	lineage   string
	scope     string
	version   string
	progress  bool
	variables structure.VariablesSection
}

// Option configures a Profile, DataSet or DataSetReport.
type Option func(*options)

// WithIDs sets the identifier source. Defaults to random UUIDs.
func WithIDs(ids identity.Generator) Option {
	return func(o *options) {
		o.ids = ids
	}
}

// WithRenderer sets the renderer. Defaults to one using the built-in templates.
func WithRenderer(r *render.Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLineage sets the lineage diagram of a DataSetReport.
func WithLineage(lineage string) Option {
	return func(o *options) {
		o.lineage = lineage
	}
}

// WithScope makes the top-level anchors of a Profile unique to scope.
// Profiles sharing one page need distinct scopes.
func WithScope(scope string) Option {
	return func(o *options) {
		o.scope = scope
	}
}

// WithVersion records the tool version in JSON exports.
func WithVersion(version string) Option {
	return func(o *options) {
		o.version = version
	}
}

// WithProgress enables the progress line while a Profile builds its structure.
func WithProgress(enabled bool) Option {
	return func(o *options) {
		o.progress = enabled
	}
}

// WithVariables replaces the variables section of a Profile.
func WithVariables(v structure.VariablesSection) Option {
	return func(o *options) {
		o.variables = v
	}
}

func newOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ids == nil {
		o.ids = identity.Default()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.renderer == nil {
		o.renderer = render.New(nil, render.WithLogger(o.logger))
	}
	return o
}
