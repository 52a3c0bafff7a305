package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestReport is one report of a dataset: a title and the summary file
// it is built from.
type ManifestReport struct {
	Title   string `yaml:"title"`
	Summary string `yaml:"summary"`
}

// ManifestDataSet is a named group of reports.
type ManifestDataSet struct {
	Name    string           `yaml:"name"`
	Reports []ManifestReport `yaml:"reports"`
}

// Manifest describes a dataset page.
//
//	name: census
//	lineage: |
//	  A[All Ages] -->|age < 35| B[Young Ages]
//	datasets:
//	  - name: Census All Ages
//	    reports:
//	      - title: All ages
//	        summary: all.json
type Manifest struct {
	// Name is the page name and the default output file name.
	Name string `yaml:"name"`

	// Output overrides the output file name, without the .html extension.
	Output string `yaml:"output,omitempty"`

	// Lineage is a mermaid diagram of how the datasets relate.
	Lineage string `yaml:"lineage,omitempty"`

	DataSets []ManifestDataSet `yaml:"datasets"`
}

// LoadManifest reads a manifest. Relative summary paths are resolved
// against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided manifest path is intentional
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidManifest, path, err)
	}

	base := filepath.Dir(path)
	for i := range m.DataSets {
		for j := range m.DataSets[i].Reports {
			r := &m.DataSets[i].Reports[j]
			if r.Summary != "" && !filepath.IsAbs(r.Summary) {
				r.Summary = filepath.Join(base, r.Summary)
			}
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that every dataset is named and every report has a summary.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidManifest)
	}
	if len(m.DataSets) == 0 {
		return ErrEmptyManifest
	}
	for i, ds := range m.DataSets {
		if ds.Name == "" {
			return fmt.Errorf("%w: dataset %d has no name", ErrInvalidManifest, i+1)
		}
		for j, r := range ds.Reports {
			if r.Summary == "" {
				return fmt.Errorf("%w: report %d of %q has no summary", ErrInvalidManifest, j+1, ds.Name)
			}
		}
	}
	return nil
}

// OutputName returns the output file name without extension.
func (m *Manifest) OutputName() string {
	if m.Output != "" {
		return m.Output
	}
	return m.Name
}

// ReportTitle returns the title of r, falling back to the summary file name.
func ReportTitle(r ManifestReport) string {
	if r.Title != "" {
		return r.Title
	}
	return filepath.Base(r.Summary)
}
