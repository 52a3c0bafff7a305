package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/profilereport/internal/config"
	"github.com/nao1215/profilereport/internal/dataset"
	"github.com/nao1215/profilereport/internal/model"
	"github.com/nao1215/profilereport/internal/overview"
)

// Job is the state passed between the steps of one dataset page build.
type Job struct {
	// Manifest describes the page. Set by the caller.
	Manifest *config.Manifest

	// Settings are applied to every report. Set by the caller.
	Settings overview.Settings

	// Output is the output name without extension; empty means the
	// manifest's output name.
	Output string

	// Summaries holds the loaded summaries by file path.
	Summaries map[string]*model.Summary

	// DataSets holds the grouped profiles in manifest order.
	DataSets []*dataset.DataSet

	// Report is the assembled page.
	Report *dataset.DataSetReport

	// Path is the written HTML file.
	Path string

	// RecordID is the catalog row of the written page, or zero.
	RecordID int64

	// PerformedSteps lists the steps that ran, in order.
	PerformedSteps []string

	// Err is the last step error.
	Err error

	// Cancelled is set when the context ended before all steps ran.
	Cancelled bool
}

// NewJob returns a Job for manifest.
func NewJob(manifest *config.Manifest, settings overview.Settings) *Job {
	return &Job{
		Manifest:  manifest,
		Settings:  settings,
		Summaries: make(map[string]*model.Summary),
	}
}

// OutputName returns the output name without extension.
func (j *Job) OutputName() string {
	if j.Output != "" {
		return j.Output
	}
	if j.Manifest != nil {
		return j.Manifest.OutputName()
	}
	return ""
}

// Step is one stage of a dataset page build.
type Step interface {
	// Do executes the step, reading and updating job.
	Do(ctx context.Context, job *Job) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps executing steps after one fails.
// The default is to stop on the first error.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a Pipeline. Steps are added with AddStep.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps in order. Cancellation is checked before each
// step. It returns the first step error unless continueOnError is set.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			job.Cancelled = true
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step", "step", step.Name(), "output", job.OutputName())

		if err := step.Do(ctx, job); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"output", job.OutputName(),
				"error", err,
			)
			job.Err = err
			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed", "step", step.Name())
		}

		job.PerformedSteps = append(job.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
