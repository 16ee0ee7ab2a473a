package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// trailingText returns the text immediately following a node, stopping at
// the next element. Used for em markers whose value sits in the raw text
// after the marker ("<em>Credit points:</em> 6cp").
func trailingText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	var b strings.Builder
	for n := sel.Get(0).NextSibling; n != nil && n.Type == html.TextNode; n = n.NextSibling {
		b.WriteString(n.Data)
	}
	return strings.TrimSpace(b.String())
}

// spacedText flattens a selection to text with single spaces between text
// runs, so inline links do not glue adjacent words together.
func spacedText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, " ")
}

// cellText flattens a selection to text with newlines between text runs,
// preserving the block structure of multi-paragraph table cells.
func cellText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, "\n")
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			*parts = append(*parts, text)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}
