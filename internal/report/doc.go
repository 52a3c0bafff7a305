// Package report writes display trees in formats other than HTML.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: The display tree as JSON for tool integration
//   - MarkdownWriter: GitHub-flavored Markdown with mermaid diagrams
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output with MultiWriter.
// HTML output is produced by package render.
package report
