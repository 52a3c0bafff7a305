package render

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Anchor verification errors.
var (
	// ErrDuplicateAnchor is returned when two elements share an id.
	ErrDuplicateAnchor = errors.New("duplicate element id")

	// ErrDanglingLink is returned when an in-page link has no target.
	ErrDanglingLink = errors.New("in-page link without target")
)

// AnchorReport lists the ids and in-page link targets of a document.
type AnchorReport struct {
	IDs   []string
	Links []string
}

// ScanAnchors parses an HTML document and collects its element ids and
// "#fragment" links in document order.
func ScanAnchors(r io.Reader) (*AnchorReport, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	report := &AnchorReport{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id := getAttr(n, "id"); id != "" {
				report.IDs = append(report.IDs, id)
			}
			if n.Data == "a" {
				if href := getAttr(n, "href"); strings.HasPrefix(href, "#") && len(href) > 1 {
					report.Links = append(report.Links, href[1:])
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return report, nil
}

// VerifyAnchors checks that element ids are unique and that every in-page
// link points at an existing id.
func VerifyAnchors(r io.Reader) error {
	report, err := ScanAnchors(r)
	if err != nil {
		return err
	}

	ids := make(map[string]struct{}, len(report.IDs))
	for _, id := range report.IDs {
		if _, ok := ids[id]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateAnchor, id)
		}
		ids[id] = struct{}{}
	}

	var dangling []string
	for _, link := range report.Links {
		if _, ok := ids[link]; !ok {
			dangling = append(dangling, link)
		}
	}
	if len(dangling) > 0 {
		sort.Strings(dangling)
		return fmt.Errorf("%w: %s", ErrDanglingLink, strings.Join(dangling, ", "))
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
