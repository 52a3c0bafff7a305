package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/nao1215/profilereport/internal/overview"
)

const (
	// AppName is the application name used for XDG directory paths.
	AppName = "profilereport"

	// DefaultTitle is the report title when neither the flag nor the
	// configuration file sets one.
	DefaultTitle = "Pandas Profiling Report"

	// DefaultProgressBar shows progress while the report structure is built.
	DefaultProgressBar = true
)

// Config holds the options of one command run. It is populated from CLI
// flags and the configuration file and passed down explicitly.
type Config struct {
	// Title is the report title.
	Title string

	// ProgressBar prints progress to stderr while building reports.
	ProgressBar bool

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .profilereport is searched in the current directory and
	// then in the user's home directory.
	ConfigFilePath string

	// File is the loaded configuration file, or nil.
	File *File

	// JSONReport writes the display tree as JSON instead of HTML.
	// At most one of JSONReport, MarkdownReport and TextReport is set.
	JSONReport bool

	// MarkdownReport writes the report as Markdown instead of HTML.
	MarkdownReport bool

	// TextReport writes a plain-text summary instead of HTML.
	TextReport bool

	// ReportFile is the output path. Empty means stdout for text formats.
	ReportFile string

	// Inputs are the summary files (render) or the manifest (dataset).
	Inputs []string

	// TemplateDir overrides built-in templates. Templates missing from it
	// fall back to the XDG template directory and then to the built-ins.
	TemplateDir string

	// DBDir is the catalog directory. Empty disables the catalog.
	DBDir string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Title:       DefaultTitle,
		ProgressBar: DefaultProgressBar,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for profilereport.
// On Linux: ~/.local/share/profilereport
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for profilereport.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for profilereport.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Apply copies values from the configuration file that were not set on
// the command line. titleSet reports whether --title was given.
func (c *Config) Apply(f *File, titleSet bool) {
	if f == nil {
		return
	}
	c.File = f
	if !titleSet && f.Title != "" {
		c.Title = f.Title
	}
	if f.ProgressBar != nil {
		c.ProgressBar = *f.ProgressBar
	}
	if c.TemplateDir == "" {
		c.TemplateDir = f.HTML.TemplateDir
	}
}

// Settings returns the report settings read by the section builders.
func (c *Config) Settings() overview.Settings {
	if c.File == nil {
		return overview.Settings{Engine: overview.DefaultEngine()}
	}
	return c.File.Settings()
}

// Validate checks that the configuration is usable.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	formats := 0
	for _, set := range []bool{c.JSONReport, c.MarkdownReport, c.TextReport} {
		if set {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	if c.TemplateDir != "" {
		info, err := os.Stat(c.TemplateDir)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTemplateDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: %s is not a directory", ErrInvalidTemplateDir, c.TemplateDir)
		}
	}

	return nil
}
