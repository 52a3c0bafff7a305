// Package config provides configuration structures and utilities for
// profilereport: command-line options, the YAML configuration file that
// carries report settings, and the manifest describing a dataset page.
package config
