// Package model defines the input documents consumed by the report builder.
//
// This package contains the following main types:
//   - Summary: The precomputed statistics document produced by a profiling engine
//   - Warning: A single data-quality message attached to a summary
//   - MessageType: The closed set of warning kinds
//   - Metadata: Descriptive, dataset-level fields shown in the report
//
// Summaries are read-only. They are decoded into a YAML node tree rather than
// into Go maps so that mapping order survives decoding; the order of variable
// types and variables in the rendered report follows the order written by the
// profiling engine.
//
// Missing keys are reported as *KeyError values that match ErrMissingKey.
package model
