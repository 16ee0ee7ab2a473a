package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Section labels recognized in h3 headings. Matching is by substring, since
// the site decorates headings inconsistently ("Assessment", "Assessment:").
const (
	labelDescription = "Description"
	labelObjectives  = "Subject learning objectives"
	labelCILOs       = "Course intended learning outcomes"
	labelTeaching    = "Teaching and learning strategies"
	labelTopics      = "Content (topics)"
	labelAssessment  = "Assessment"
	labelMinimumReqs = "Minimum requirements"
	labelRecommended = "Recommended texts"
)

var sectionLabels = []string{
	labelDescription,
	labelObjectives,
	labelCILOs,
	labelTeaching,
	labelTopics,
	labelAssessment,
	labelMinimumReqs,
	labelRecommended,
}

// section is one heading-delimited run of sibling content: the h3 heading
// itself and every following sibling up to (excluding) the next h3.
type section struct {
	heading *goquery.Selection
	body    *goquery.Selection
}

// sections scans the document once and maps each known label to its
// heading-delimited node range. The first heading matching a label wins;
// labels with no matching heading are simply absent from the map.
func sections(doc *goquery.Document) map[string]section {
	found := make(map[string]section)

	doc.Find("h3").Each(func(_ int, hdr *goquery.Selection) {
		text := strings.TrimSpace(hdr.Text())
		for _, label := range sectionLabels {
			if _, seen := found[label]; seen {
				continue
			}
			if strings.Contains(text, label) {
				found[label] = section{
					heading: hdr,
					body:    hdr.NextUntil("h3"),
				}
			}
		}
	})

	return found
}

// blocks returns the text of each p/ul/ol node in the section body, in
// document order. List blocks join their items with newlines.
func (s section) blocks() []string {
	var out []string
	s.body.Each(func(_ int, sel *goquery.Selection) {
		switch goquery.NodeName(sel) {
		case "p":
			if text := strings.TrimSpace(sel.Text()); text != "" {
				out = append(out, text)
			}
		case "ul", "ol":
			var items []string
			sel.Find("li").Each(func(_ int, li *goquery.Selection) {
				if text := strings.TrimSpace(li.Text()); text != "" {
					items = append(items, text)
				}
			})
			if len(items) > 0 {
				out = append(out, strings.Join(items, "\n"))
			}
		}
	})
	return out
}

// text returns the section body as one blank-line-joined string.
func (s section) text() string {
	return strings.Join(s.blocks(), "\n\n")
}

// listItems returns the text of every li in the section body, falling back
// to paragraph text when the section carries no list at all.
func (s section) listItems() []string {
	items := []string{}
	s.body.Each(func(_ int, sel *goquery.Selection) {
		switch goquery.NodeName(sel) {
		case "ul", "ol":
			sel.Find("li").Each(func(_ int, li *goquery.Selection) {
				if text := strings.TrimSpace(li.Text()); text != "" {
					items = append(items, text)
				}
			})
		}
	})
	if len(items) > 0 {
		return items
	}
	s.body.Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == "p" {
			if text := strings.TrimSpace(sel.Text()); text != "" {
				items = append(items, text)
			}
		}
	})
	return items
}

// findTable locates the first table with the given class inside the section
// body, whether the table is a direct sibling or wrapped in one.
func (s section) findTable(class string) *goquery.Selection {
	sel := s.body.Filter("table." + class)
	if sel.Length() > 0 {
		return sel.First()
	}
	sel = s.body.Find("table." + class)
	if sel.Length() > 0 {
		return sel.First()
	}
	return nil
}
