package config

import "errors"

// Configuration validation errors returned by Config.Validate and
// Manifest.Validate.
var (
	// ErrNoInput is returned when no summary or manifest file is given.
	ErrNoInput = errors.New("no input specified: provide a summary file")

	// ErrConflictingReportFormats is returned when more than one of --json,
	// --markdown and --text is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: use only one of --json, --markdown and --text")

	// ErrInvalidTemplateDir is returned when the template directory does not
	// exist or is not a directory.
	ErrInvalidTemplateDir = errors.New("invalid template directory")

	// ErrEmptyManifest is returned when a manifest lists no datasets.
	ErrEmptyManifest = errors.New("manifest has no datasets")

	// ErrInvalidManifest is returned when a manifest entry is incomplete.
	ErrInvalidManifest = errors.New("invalid manifest")
)
