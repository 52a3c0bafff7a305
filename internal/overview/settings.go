// Package overview builds the sections shown on the "Overview" tab of a
// profiling report: dataset statistics, dataset metadata, column
// descriptions, warnings and reproduction details.
//
// Every builder is a pure function of its inputs. Builders return fresh
// nodes on each call and never read global state; the caller passes a
// Settings value and an identifier generator.
package overview

import (
	"github.com/nao1215/profilereport/internal/model"
)

const (
	// DefaultEngineName is the profiling engine credited in reports.
	DefaultEngineName = "pandas-profiling"

	// DefaultEngineURL is the home page of the default engine.
	DefaultEngineURL = "https://github.com/pandas-profiling/pandas-profiling"
)

// Engine names the profiling engine that produced a summary.
type Engine struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// DefaultEngine returns the engine used when none is configured.
func DefaultEngine() Engine {
	return Engine{Name: DefaultEngineName, URL: DefaultEngineURL}
}

// orDefault fills empty fields from DefaultEngine.
func (e Engine) orDefault() Engine {
	d := DefaultEngine()
	if e.Name == "" {
		e.Name = d.Name
	}
	if e.URL == "" {
		e.URL = d.URL
	}
	return e
}

// Settings is the per-report configuration read by the builders.
type Settings struct {
	// Metadata is shown in the "Dataset" section when any field is set.
	Metadata model.Metadata

	// Descriptions is shown in the "Variables" section when non-empty.
	Descriptions model.Descriptions

	// Engine is credited in the reproduction section.
	Engine Engine
}
