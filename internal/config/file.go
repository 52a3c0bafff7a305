package config

import (
	"github.com/nao1215/profilereport/internal/model"
	"github.com/nao1215/profilereport/internal/overview"
)

// VariablesConfig holds per-column settings.
type VariablesConfig struct {
	// Descriptions maps column names to free text, in document order.
	Descriptions model.Descriptions `yaml:"descriptions,omitempty"`
}

// HTMLConfig holds HTML output settings.
type HTMLConfig struct {
	// TemplateDir is searched for templates before the built-in ones.
	TemplateDir string `yaml:"template_dir,omitempty"`
}

// File represents the structure of the .profilereport configuration file.
type File struct {
	// Title is the default report title.
	Title string `yaml:"title,omitempty"`

	// ProgressBar overrides DefaultProgressBar when set.
	ProgressBar *bool `yaml:"progress_bar,omitempty"`

	// Dataset is shown in the "Dataset" section of every report.
	Dataset model.Metadata `yaml:"dataset,omitempty"`

	// Variables holds the column descriptions.
	Variables VariablesConfig `yaml:"variables,omitempty"`

	// HTML holds template settings.
	HTML HTMLConfig `yaml:"html,omitempty"`

	// Engine is the profiling engine credited in reports.
	Engine overview.Engine `yaml:"engine,omitempty"`
}

// Settings converts the file to the settings read by the section builders.
// A missing engine name or URL falls back to the default engine.
func (f *File) Settings() overview.Settings {
	engine := f.Engine
	def := overview.DefaultEngine()
	if engine.Name == "" {
		engine.Name = def.Name
	}
	if engine.URL == "" {
		engine.URL = def.URL
	}

	return overview.Settings{
		Metadata:     f.Dataset,
		Descriptions: f.Variables.Descriptions,
		Engine:       engine,
	}
}
