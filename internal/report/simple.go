package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nao1215/profilereport/internal/presentation"
)

// ruleWidth is the width of horizontal rules in text output.
const ruleWidth = 70

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether tables without rows are shown.
	showEmpty bool

	// verbose adds the values attached to each warning.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty tables.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one report in human-readable format.
func (w *SimpleWriter) Write(page Page) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, page.Title)
	w.writePage(&sb, page)

	return w.output.Write([]byte(sb.String()))
}

// WriteCollection outputs every report of the collection.
func (w *SimpleWriter) WriteCollection(c Collection) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, c.Name)
	if c.Lineage != "" {
		w.writeSection(&sb, "LINEAGE")
		for _, line := range strings.Split(strings.TrimSpace(c.Lineage), "\n") {
			sb.WriteString("  " + line + "\n")
		}
		sb.WriteString("\n")
	}

	for _, set := range c.Sets {
		w.writeSection(&sb, strings.ToUpper(set.Name))
		if len(set.Pages) == 0 {
			sb.WriteString("  No reports\n\n")
			continue
		}
		for _, page := range set.Pages {
			sb.WriteString(fmt.Sprintf("# %s\n\n", page.Title))
			w.writePage(&sb, page)
		}
	}

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the banner.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	pad := (ruleWidth - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	sb.WriteString(strings.Repeat(" ", pad) + title + "\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

// writeSection writes a section header framed by rules.
func (w *SimpleWriter) writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writePage(sb *strings.Builder, page Page) {
	if page.Root == nil {
		sb.WriteString("  Empty report\n\n")
		return
	}
	if page.Root.Body != nil {
		w.writeNode(sb, page.Root.Body, 0)
	}
	if page.Root.Footer != nil {
		text, _ := fragmentText(page.Root.Footer.Content)
		sb.WriteString(text + "\n")
	}
}

// writeNode writes n. Depth 0 is the report body, depth 1 the top-level
// sections.
func (w *SimpleWriter) writeNode(sb *strings.Builder, n presentation.Node, depth int) {
	switch v := n.(type) {
	case *presentation.Container:
		switch {
		case depth == 1:
			w.writeSection(sb, strings.ToUpper(v.Name))
		case depth > 1 && v.Name != "":
			sb.WriteString(fmt.Sprintf("[%s]\n", v.Name))
		}
		for _, item := range v.Items {
			w.writeNode(sb, item, depth+1)
		}
	case *presentation.Table:
		w.writeTable(sb, v)
	case *presentation.Warnings:
		w.writeWarnings(sb, v)
	case *presentation.HTML:
		if text, _ := fragmentText(v.Content); text != "" {
			sb.WriteString("  " + text + "\n\n")
		}
	}
}

// writeTable writes rows as aligned "name: value" lines.
func (w *SimpleWriter) writeTable(sb *strings.Builder, t *presentation.Table) {
	if len(t.Rows) == 0 && !w.showEmpty {
		return
	}

	if t.Name != "" {
		sb.WriteString(fmt.Sprintf("  %s\n", t.Name))
	}
	if len(t.Rows) == 0 {
		sb.WriteString("    (none)\n\n")
		return
	}

	width := 0
	for _, row := range t.Rows {
		if len(row.Name) > width {
			width = len(row.Name)
		}
	}
	for _, row := range t.Rows {
		text, href := cellText(row)
		if href != "" && !isDataURI(href) && href != text {
			text = fmt.Sprintf("%s <%s>", text, href)
		}
		sb.WriteString(fmt.Sprintf("    %-*s  %s\n", width+1, row.Name+":", text))
	}
	sb.WriteString("\n")
}

// writeWarnings lists warnings; rejected columns are marked with [-].
func (w *SimpleWriter) writeWarnings(sb *strings.Builder, ws *presentation.Warnings) {
	sb.WriteString(fmt.Sprintf("  %s\n", ws.Name))
	for _, warning := range ws.Items {
		indicator := "!"
		if warning.IsRejected() {
			indicator = "-"
		}

		subject := warning.Column
		if subject == "" {
			subject = "dataset"
		}
		sb.WriteString(fmt.Sprintf("    [%s] %s %s (%s)\n", indicator, subject, warning.Type.Phrase(), warning.Type))

		if w.verbose {
			keys := make([]string, 0, len(warning.Values))
			for key := range warning.Values {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				sb.WriteString(fmt.Sprintf("          %s = %v\n", key, warning.Values[key]))
			}
		}
	}
	sb.WriteString("\n")
}
