package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/profilereport/internal/catalog"
	"github.com/nao1215/profilereport/internal/config"
	"github.com/nao1215/profilereport/internal/pipeline"
	"github.com/nao1215/profilereport/internal/report"
	"github.com/spf13/cobra"
)

// NewDatasetCmd creates the dataset command.
func NewDatasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset <manifest.yaml>",
		Short: "Group reports of related datasets into one HTML page",
		Long: `Dataset builds one HTML page holding several reports, grouped by dataset,
with an optional mermaid lineage diagram describing how the datasets relate.

The page is written to "<output>.html" and recorded in the catalog so that
'profilereport history' can list it.

Manifest example:
  name: census
  lineage: |
    A[All Ages] -->|age < 35| B[Young Ages]
  datasets:
    - name: Census All Ages
      reports:
        - title: All ages
          summary: all.json
    - name: Census Young Ages
      reports:
        - title: Young ages
          summary: young.json

Examples:
  # Write census.html
  profilereport dataset census.yaml

  # Choose the output name and also export Markdown
  profilereport dataset census.yaml -o site/census --markdown`,
		Args: cobra.ExactArgs(1),
		RunE: runDatasetCmd,
	}

	addConfigFlags(cmd)
	cmd.Flags().StringP("output", "o", "",
		"Output file name without the .html extension (default: manifest output or name)")
	cmd.Flags().BoolP("json", "j", false,
		"Also write the page contents as <output>.json (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Also write the page contents as <output>.md (mutually exclusive with --json)")
	cmd.Flags().Bool("no-record", false,
		"Do not record the page in the catalog")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Catalog directory")

	return cmd
}

// runDatasetCmd executes the dataset command.
func runDatasetCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildDatasetConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runDataset(ctx, cmd.OutOrStdout(), cfg, logger)
}

// buildDatasetConfig creates a Config from the dataset command's flags.
func buildDatasetConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = cmd.Flags().GetString("db-dir"); err != nil {
		return nil, err
	}
	noRecord, err := cmd.Flags().GetBool("no-record")
	if err != nil {
		return nil, err
	}
	if noRecord {
		cfg.DBDir = ""
	}

	cfg.Inputs = args
	return cfg, nil
}

// runDataset builds, writes and records the page described by the manifest
// in cfg.Inputs[0].
func runDataset(ctx context.Context, stdout io.Writer, cfg *config.Config, logger *slog.Logger) error {
	manifest, err := config.LoadManifest(cfg.Inputs[0])
	if err != nil {
		return err
	}

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineProgress(cfg.ProgressBar),
		pipeline.WithPipelineVersion(getVersion()),
	}
	if cfg.DBDir != "" {
		cat, err := catalog.Open(cfg.DBDir, catalog.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open catalog: %w", err)
		}
		defer cat.Close()
		logger.Info("catalog opened", "path", cat.Path())
		configOpts = append(configOpts, pipeline.WithPipelineCatalog(cat))
	}

	p := pipeline.DefaultPipeline(newRenderer(cfg, logger),
		[]pipeline.Option{pipeline.WithLogger(logger)},
		configOpts...,
	)

	job := pipeline.NewJob(manifest, cfg.Settings())
	job.Output = cfg.ReportFile
	if err := ensureDir(job.OutputName()); err != nil {
		return err
	}

	if err := p.Execute(ctx, job); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Dataset report written: %s\n", job.Path)
	if job.RecordID != 0 {
		fmt.Fprintf(stdout, "Recorded as #%d\n", job.RecordID)
	}

	return exportCollection(stdout, cfg, job)
}

// exportCollection writes the JSON and Markdown exports requested in cfg
// next to the HTML page.
func exportCollection(stdout io.Writer, cfg *config.Config, job *pipeline.Job) error {
	if !cfg.JSONReport && !cfg.MarkdownReport {
		return nil
	}

	collection, err := job.Report.Collection()
	if err != nil {
		return err
	}

	exports := []struct {
		enabled bool
		ext     string
		writer  func(io.Writer) report.Writer
	}{
		{cfg.JSONReport, ".json", func(w io.Writer) report.Writer {
			return report.NewJSONWriter(w, report.WithPrettyPrint(), report.WithVersion(getVersion()))
		}},
		{cfg.MarkdownReport, ".md", func(w io.Writer) report.Writer {
			return report.NewMarkdownWriter(w)
		}},
	}

	for _, e := range exports {
		if !e.enabled {
			continue
		}
		var buf bytes.Buffer
		if _, err := e.writer(&buf).WriteCollection(collection); err != nil {
			return err
		}
		path := job.OutputName() + e.ext
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // Exported report is meant to be shared
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(stdout, "Exported: %s\n", path)
	}
	return nil
}
