package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/profilereport/internal/catalog"
	"github.com/nao1215/profilereport/internal/config"
	"github.com/nao1215/profilereport/internal/dataset"
	"github.com/nao1215/profilereport/internal/identity"
	"github.com/nao1215/profilereport/internal/model"
	"github.com/nao1215/profilereport/internal/render"
)

// ErrMissingInput is returned when a step runs before the step that
// produces its input.
var ErrMissingInput = errors.New("missing step input")

// LoadSummariesStep reads every summary file named in the manifest.
// A file referenced by several reports is read once.
type LoadSummariesStep struct {
	logger *slog.Logger
}

// NewLoadSummariesStep creates a LoadSummariesStep.
func NewLoadSummariesStep(logger *slog.Logger) *LoadSummariesStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadSummariesStep{logger: logger}
}

// Name returns the step name.
func (s *LoadSummariesStep) Name() string {
	return "load_summaries"
}

// Do executes the step.
func (s *LoadSummariesStep) Do(ctx context.Context, job *Job) error {
	if job.Manifest == nil {
		return fmt.Errorf("%w: manifest", ErrMissingInput)
	}
	if job.Summaries == nil {
		job.Summaries = make(map[string]*model.Summary)
	}

	for _, ds := range job.Manifest.DataSets {
		for _, r := range ds.Reports {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, ok := job.Summaries[r.Summary]; ok {
				continue
			}
			summary, err := model.LoadSummaryFile(r.Summary)
			if err != nil {
				return err
			}
			s.logger.Debug("summary loaded", "path", r.Summary)
			job.Summaries[r.Summary] = summary
		}
	}
	return nil
}

// BuildProfilesStep groups a Profile per manifest report into DataSets.
// Every profile gets its own anchor scope so that all of them can share
// one page.
type BuildProfilesStep struct {
	ids      identity.Generator
	renderer *render.Renderer
	progress bool
	version  string
	logger   *slog.Logger
}

// BuildProfilesStepOption configures a BuildProfilesStep.
type BuildProfilesStepOption func(*BuildProfilesStep)

// WithProfileIDs sets the identifier source for profiles and datasets.
func WithProfileIDs(ids identity.Generator) BuildProfilesStepOption {
	return func(s *BuildProfilesStep) {
		s.ids = ids
	}
}

// WithProfileProgress enables the structure progress line of each profile.
func WithProfileProgress(enabled bool) BuildProfilesStepOption {
	return func(s *BuildProfilesStep) {
		s.progress = enabled
	}
}

// WithProfileVersion records the tool version in JSON exports.
func WithProfileVersion(version string) BuildProfilesStepOption {
	return func(s *BuildProfilesStep) {
		s.version = version
	}
}

// WithProfileLogger sets a custom logger for the step.
func WithProfileLogger(logger *slog.Logger) BuildProfilesStepOption {
	return func(s *BuildProfilesStep) {
		s.logger = logger
	}
}

// NewBuildProfilesStep creates a BuildProfilesStep rendering with renderer.
func NewBuildProfilesStep(renderer *render.Renderer, opts ...BuildProfilesStepOption) *BuildProfilesStep {
	s := &BuildProfilesStep{
		ids:      identity.Default(),
		renderer: renderer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *BuildProfilesStep) Name() string {
	return "build_profiles"
}

// Do executes the step.
func (s *BuildProfilesStep) Do(ctx context.Context, job *Job) error {
	if job.Manifest == nil {
		return fmt.Errorf("%w: manifest", ErrMissingInput)
	}

	job.DataSets = make([]*dataset.DataSet, 0, len(job.Manifest.DataSets))
	for _, entry := range job.Manifest.DataSets {
		ds := dataset.NewDataSet(entry.Name, nil, dataset.WithIDs(s.ids))
		for _, r := range entry.Reports {
			if err := ctx.Err(); err != nil {
				return err
			}
			summary, ok := job.Summaries[r.Summary]
			if !ok {
				return fmt.Errorf("%w: summary %s", ErrMissingInput, r.Summary)
			}
			ds.AddReport(dataset.NewProfile(config.ReportTitle(r), summary, job.Settings,
				dataset.WithIDs(s.ids),
				dataset.WithScope(s.ids.NewID()),
				dataset.WithRenderer(s.renderer),
				dataset.WithLogger(s.logger),
				dataset.WithProgress(s.progress),
				dataset.WithVersion(s.version),
			))
		}
		s.logger.Debug("dataset built", "dataset", ds.String(), "reports", len(entry.Reports))
		job.DataSets = append(job.DataSets, ds)
	}
	return nil
}

// AssembleStep creates the DataSetReport from the built datasets.
type AssembleStep struct {
	ids      identity.Generator
	renderer *render.Renderer
	logger   *slog.Logger
}

// NewAssembleStep creates an AssembleStep.
func NewAssembleStep(renderer *render.Renderer, ids identity.Generator, logger *slog.Logger) *AssembleStep {
	if ids == nil {
		ids = identity.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AssembleStep{ids: ids, renderer: renderer, logger: logger}
}

// Name returns the step name.
func (s *AssembleStep) Name() string {
	return "assemble"
}

// Do executes the step.
func (s *AssembleStep) Do(_ context.Context, job *Job) error {
	if job.Manifest == nil || job.DataSets == nil {
		return fmt.Errorf("%w: datasets", ErrMissingInput)
	}
	job.Report = dataset.NewDataSetReport(job.Manifest.Name, job.DataSets,
		dataset.WithLineage(job.Manifest.Lineage),
		dataset.WithRenderer(s.renderer),
		dataset.WithIDs(s.ids),
		dataset.WithLogger(s.logger),
	)
	return nil
}

// WriteStep renders the page and writes it to "<output>.html".
type WriteStep struct{}

// NewWriteStep creates a WriteStep.
func NewWriteStep() *WriteStep {
	return &WriteStep{}
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return "write"
}

// Do executes the step.
func (s *WriteStep) Do(_ context.Context, job *Job) error {
	if job.Report == nil {
		return fmt.Errorf("%w: report", ErrMissingInput)
	}
	path, err := job.Report.WriteToFile(job.OutputName())
	if err != nil {
		return err
	}
	job.Path = path
	return nil
}

// VerifyStep checks the written page for duplicate anchors and links to
// missing anchors.
type VerifyStep struct{}

// NewVerifyStep creates a VerifyStep.
func NewVerifyStep() *VerifyStep {
	return &VerifyStep{}
}

// Name returns the step name.
func (s *VerifyStep) Name() string {
	return "verify_anchors"
}

// Do executes the step.
func (s *VerifyStep) Do(_ context.Context, job *Job) error {
	if job.Path == "" {
		return fmt.Errorf("%w: written page", ErrMissingInput)
	}
	f, err := os.Open(job.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := render.VerifyAnchors(f); err != nil {
		return fmt.Errorf("%s: %w", job.Path, err)
	}
	return nil
}

// RecordStep stores the written page in the catalog.
type RecordStep struct {
	catalog *catalog.Catalog
}

// NewRecordStep creates a RecordStep writing to c.
func NewRecordStep(c *catalog.Catalog) *RecordStep {
	return &RecordStep{catalog: c}
}

// Name returns the step name.
func (s *RecordStep) Name() string {
	return "record"
}

// Do executes the step.
func (s *RecordStep) Do(ctx context.Context, job *Job) error {
	if job.Report == nil || job.Path == "" {
		return fmt.Errorf("%w: written page", ErrMissingInput)
	}

	rec := &catalog.PageRecord{
		ReportID: job.Report.ID(),
		Name:     job.Report.Name(),
		Path:     job.Path,
		Lineage:  job.Report.Lineage(),
	}
	for _, ds := range job.Report.DataSets() {
		entry := catalog.DataSetEntry{Name: ds.Name(), ID: ds.ID(), Reports: []string{}}
		for _, r := range ds.Reports() {
			entry.Reports = append(entry.Reports, r.Title())
		}
		rec.DataSets = append(rec.DataSets, entry)
	}

	id, err := s.catalog.RecordPage(ctx, rec)
	if err != nil {
		return err
	}
	job.RecordID = id
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// IDs generates dataset, report and anchor identifiers.
	IDs identity.Generator

	// Progress prints a progress line per report.
	Progress bool

	// Version is recorded in JSON exports.
	Version string

	// Catalog records written pages when non-nil.
	Catalog *catalog.Catalog
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineIDs sets the identifier source.
func WithPipelineIDs(ids identity.Generator) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.IDs = ids
	}
}

// WithPipelineProgress enables progress output.
func WithPipelineProgress(enabled bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Progress = enabled
	}
}

// WithPipelineVersion sets the version recorded in exports.
func WithPipelineVersion(version string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Version = version
	}
}

// WithPipelineCatalog records written pages in c.
func WithPipelineCatalog(c *catalog.Catalog) DefaultPipelineOption {
	return func(cfg *DefaultPipelineConfig) {
		cfg.Catalog = c
	}
}

// DefaultPipeline creates the pipeline of the dataset command: load
// summaries, build profiles, assemble, write, verify anchors and, when a
// catalog is configured, record the page.
func DefaultPipeline(renderer *render.Renderer, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{IDs: identity.Default()}
	for _, opt := range configOpts {
		opt(cfg)
	}
	if renderer == nil {
		renderer = render.New(nil, render.WithLogger(p.logger))
	}

	p.AddSteps(
		NewLoadSummariesStep(p.logger),
		NewBuildProfilesStep(renderer,
			WithProfileIDs(cfg.IDs),
			WithProfileProgress(cfg.Progress),
			WithProfileVersion(cfg.Version),
			WithProfileLogger(p.logger),
		),
		NewAssembleStep(renderer, cfg.IDs, p.logger),
		NewWriteStep(),
		NewVerifyStep(),
	)
	if cfg.Catalog != nil {
		p.AddStep(NewRecordStep(cfg.Catalog))
	}

	return p
}
