package report

import (
	"io"
	"strings"

	"github.com/nao1215/profilereport/internal/presentation"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Writer defines the interface for report output.
// Implementations write display trees in various formats.
type Writer interface {
	// Write outputs a single report.
	// Returns the number of bytes written and any error encountered.
	Write(page Page) (int, error)

	// WriteCollection outputs a group of reports together with the lineage
	// of their datasets.
	WriteCollection(c Collection) (int, error)
}

// Page is one titled report.
type Page struct {
	Title string             `json:"title"`
	Root  *presentation.Root `json:"report"`
}

// Set is a named group of reports about one dataset.
type Set struct {
	Name  string `json:"name"`
	ID    string `json:"id"`
	Pages []Page `json:"reports"`
}

// Collection is a group of datasets rendered on one page.
type Collection struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Lineage string `json:"lineage,omitempty"`
	Sets    []Set  `json:"datasets"`
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(page Page) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(page)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteCollection outputs the collection to all configured Writers.
func (m *MultiWriter) WriteCollection(c Collection) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteCollection(c)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// fragmentText extracts the visible text and the first link target of an
// HTML fragment such as `<a href="https://x">x</a>`.
func fragmentText(fragment string) (text, href string) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return fragment, ""
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "a" && href == "" {
				for _, attr := range n.Attr {
					if attr.Key == "href" {
						href = attr.Val
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return strings.TrimSpace(sb.String()), href
}

// cellText returns the plain text of a table row.
func cellText(row presentation.Row) (text, href string) {
	if row.Fmt.IsRaw() {
		return fragmentText(row.Text())
	}
	return row.Text(), ""
}

// isDataURI reports whether href embeds its payload.
func isDataURI(href string) bool {
	return strings.HasPrefix(href, "data:")
}
