package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/profilereport/internal/config"
	"github.com/nao1215/profilereport/internal/dataset"
	"github.com/nao1215/profilereport/internal/model"
	"github.com/nao1215/profilereport/internal/render"
	"github.com/nao1215/profilereport/internal/report"
	"github.com/spf13/cobra"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <summary.json>",
		Short: "Render one profiling summary as a report",
		Long: `Render builds the report of one profiling summary.

The summary is the JSON document written by the profiling run. Its "table"
section is required; "messages", "variables" and "package" are optional.

Without a format flag the report is a standalone HTML page. With -o and no
format flag the format follows the file extension (.html, .json, .md).

Examples:
  # Write an HTML report
  profilereport render census.json -o census.html

  # Print the display tree as JSON
  profilereport render --json census.json

  # Markdown report with a custom title
  profilereport render --markdown --title "Census" census.json -o census.md

  # Plain-text summary on stdout
  profilereport render --text census.json`,
		Args: cobra.ExactArgs(1),
		RunE: runRenderCmd,
	}

	addConfigFlags(cmd)
	cmd.Flags().StringP("title", "t", config.DefaultTitle, "Report title")
	cmd.Flags().BoolP("json", "j", false,
		"Output the display tree as JSON (mutually exclusive with --markdown and --text)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output a Markdown report (mutually exclusive with --json and --text)")
	cmd.Flags().Bool("text", false,
		"Output a plain-text summary (mutually exclusive with --json and --markdown)")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to the specified file path (creates directories if needed)")

	return cmd
}

// addConfigFlags adds the flags shared by commands that build reports.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .profilereport in current or home directory)")
	cmd.Flags().String("template-dir", "",
		"Directory of templates overriding the built-in ones")
}

// runRenderCmd executes the render command.
func runRenderCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildRenderConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	return runRender(cmd.OutOrStdout(), cfg, logger)
}

// buildRenderConfig creates a Config from the render command's flags.
func buildRenderConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	title, err := cmd.Flags().GetString("title")
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("title") {
		cfg.Title = title
	}

	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.TextReport, err = cmd.Flags().GetBool("text"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	cfg.Inputs = args
	return cfg, nil
}

// loadConfig reads the verbose, config and template-dir flags and applies
// the configuration file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}
	if cfg.TemplateDir, err = cmd.Flags().GetString("template-dir"); err != nil {
		return nil, err
	}

	// An explicit path that does not exist is an error; a missing default
	// file is not.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		f, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.Apply(f, cmd.Flags().Changed("title"))
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	return cfg, nil
}

// newRenderer returns a renderer searching the template directory, the
// user template directory and the built-in templates, in that order.
func newRenderer(cfg *config.Config, logger *slog.Logger) *render.Renderer {
	return render.New(render.DefaultSources(cfg.TemplateDir), render.WithLogger(logger))
}

// runRender builds the report of cfg.Inputs[0] and writes it.
func runRender(stdout io.Writer, cfg *config.Config, logger *slog.Logger) error {
	path := cfg.Inputs[0]
	logger.Info("render summary", "path", path, "title", cfg.Title)

	summary, err := model.LoadSummaryFile(path)
	if err != nil {
		return fmt.Errorf("failed to load summary: %w", err)
	}

	profile := dataset.NewProfile(cfg.Title, summary, cfg.Settings(),
		dataset.WithRenderer(newRenderer(cfg, logger)),
		dataset.WithLogger(logger),
		dataset.WithProgress(cfg.ProgressBar),
		dataset.WithVersion(getVersion()),
	)

	if cfg.ReportFile != "" && !cfg.JSONReport && !cfg.MarkdownReport && !cfg.TextReport {
		if err := ensureDir(cfg.ReportFile); err != nil {
			return err
		}
		if err := profile.ToFile(cfg.ReportFile); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Report written: %s\n", cfg.ReportFile)
		return nil
	}

	return outputReport(stdout, cfg, profile)
}

// outputReport writes the profile in the requested format to cfg.ReportFile
// or stdout.
func outputReport(stdout io.Writer, cfg *config.Config, profile *dataset.Profile) error {
	output := stdout
	if cfg.ReportFile != "" {
		if err := ensureDir(cfg.ReportFile); err != nil {
			return err
		}
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var (
		text string
		err  error
	)
	switch {
	case cfg.JSONReport:
		text, err = profile.ToJSON()
	case cfg.MarkdownReport:
		text, err = profile.ToMarkdown()
	case cfg.TextReport:
		page, perr := profile.ReportPage()
		if perr != nil {
			return perr
		}
		_, err = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose)).Write(page)
		return err
	default:
		text, err = profile.Page()
	}
	if err != nil {
		return err
	}

	_, err = io.WriteString(output, text)
	return err
}

// ensureDir creates the parent directory of path.
func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return nil
}
