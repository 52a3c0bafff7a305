package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/profilereport/internal/model"
	"github.com/nao1215/profilereport/internal/presentation"
)

// typesTable is the table drawn as a pie chart in addition to its rows.
const typesTable = "Variable types"

// MarkdownWriter outputs reports in GitHub-flavored Markdown.
// Tables become Markdown tables, containers become headings, the variable
// type counts and the dataset lineage become mermaid diagrams.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs one report in Markdown format.
func (w *MarkdownWriter) Write(page Page) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1(page.Title)
	md.PlainText("")
	w.writePage(md, page, 1)

	return len(md.String()), md.Build()
}

// WriteCollection outputs a collection: the lineage diagram followed by
// every report of every dataset.
func (w *MarkdownWriter) WriteCollection(c Collection) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1(c.Name)
	md.PlainText("")

	if c.Lineage != "" {
		md.H2("Lineage")
		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, c.Lineage)
		md.PlainText("")
	}

	for _, set := range c.Sets {
		md.H2(set.Name)
		md.PlainText("")
		if len(set.Pages) == 0 {
			md.Note("This dataset has no reports.")
			md.PlainText("")
			continue
		}
		for _, page := range set.Pages {
			md.H3(page.Title)
			md.PlainText("")
			w.writePage(md, page, 3)
		}
	}

	return len(md.String()), md.Build()
}

// writePage writes the body and footer of a report whose title heading has
// the given level.
func (w *MarkdownWriter) writePage(md *markdown.Markdown, page Page, level int) {
	if page.Root == nil {
		md.PlainText("Empty report.")
		md.PlainText("")
		return
	}
	if page.Root.Body != nil {
		w.writeNode(md, page.Root.Body, level)
	}
	if page.Root.Footer != nil {
		md.HorizontalRule()
		md.PlainText("")
		md.PlainTextf("*%s*", fragmentMarkdown(page.Root.Footer.Content))
		md.PlainText("")
	}
}

// writeNode writes n. level is the heading level of the enclosing section;
// the unnamed report body does not get a heading of its own.
func (w *MarkdownWriter) writeNode(md *markdown.Markdown, n presentation.Node, level int) {
	switch v := n.(type) {
	case *presentation.Container:
		next := level
		if level > 0 && v.Name != "" && v.Name != "Root" {
			next = level + 1
			heading(md, next, v.Name)
			md.PlainText("")
		}
		for _, item := range v.Items {
			w.writeNode(md, item, next)
		}
	case *presentation.Table:
		w.writeTable(md, v)
	case *presentation.Warnings:
		w.writeWarnings(md, v, level+1)
	case *presentation.HTML:
		md.PlainText(fragmentMarkdown(v.Content))
		md.PlainText("")
	}
}

// writeTable writes a two-column table.
func (w *MarkdownWriter) writeTable(md *markdown.Markdown, t *presentation.Table) {
	if len(t.Rows) == 0 {
		return
	}
	if t.Name != "" {
		md.PlainTextf("**%s**", t.Name)
		md.PlainText("")
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		text, href := cellText(row)
		rows = append(rows, []string{escapeCell(row.Name), markdownLink(escapeCell(text), href)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Name", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if t.Name == typesTable {
		w.writeTypesChart(md, t)
	}
}

// writeTypesChart draws the variable type counts as a mermaid pie chart.
func (w *MarkdownWriter) writeTypesChart(md *markdown.Markdown, t *presentation.Table) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle(typesTable),
		piechart.WithShowData(true),
	)

	drawn := 0
	for _, row := range t.Rows {
		count, ok := row.Value.(int)
		if !ok || count <= 0 {
			continue
		}
		chart.LabelAndIntValue(row.Name, uint64(count))
		drawn++
	}
	if drawn == 0 {
		return
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeWarnings writes the warning list with an alert summarising the count.
func (w *MarkdownWriter) writeWarnings(md *markdown.Markdown, ws *presentation.Warnings, level int) {
	heading(md, level, ws.Name)
	md.PlainText("")

	count := model.CountWarnings(ws.Items)
	switch {
	case len(ws.Items) == 0:
		md.Tip("No data-quality warnings.")
		md.PlainText("")
		return
	case count > 0:
		md.Warningf("%d data-quality warning(s) found.", count)
	default:
		md.Note("Only rejected columns are reported.")
	}
	md.PlainText("")

	rows := make([][]string, 0, len(ws.Items))
	for _, warning := range ws.Items {
		column := warning.Column
		if column == "" {
			column = "-"
		} else {
			column = "`" + column + "`"
		}
		rows = append(rows, []string{column, warning.Type.Phrase(), warning.Type.String()})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Column", "Warning", "Type"},
		Rows:   rows,
	})
	md.PlainText("")
}

// heading writes a heading of the given level, clamped to 1..6.
func heading(md *markdown.Markdown, level int, text string) {
	switch {
	case level <= 1:
		md.H1(text)
	case level == 2:
		md.H2(text)
	case level == 3:
		md.H3(text)
	case level == 4:
		md.H4(text)
	case level == 5:
		md.H5(text)
	default:
		md.H6(text)
	}
}

// fragmentMarkdown converts an HTML fragment to Markdown text, keeping the
// first link.
func fragmentMarkdown(fragment string) string {
	text, href := fragmentText(fragment)
	if href == "" {
		return text
	}
	// Footers carry one link in a sentence; link only the anchor text.
	anchor, _ := fragmentText(firstAnchor(fragment))
	if anchor == "" || !strings.Contains(text, anchor) {
		return markdownLink(text, href)
	}
	return strings.Replace(text, anchor, markdownLink(anchor, href), 1)
}

// firstAnchor returns the first <a ...>...</a> element of fragment, or "".
func firstAnchor(fragment string) string {
	start := strings.Index(fragment, "<a ")
	if start < 0 {
		return ""
	}
	end := strings.Index(fragment[start:], "</a>")
	if end < 0 {
		return ""
	}
	return fragment[start : start+end+len("</a>")]
}

// markdownLink links text to href. Data URIs are too large for Markdown
// tables and are dropped.
func markdownLink(text, href string) string {
	if href == "" || isDataURI(href) {
		return text
	}
	if text == "" {
		text = href
	}
	return fmt.Sprintf("[%s](%s)", text, href)
}

// escapeCell keeps cell text on one line and escapes column separators.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
