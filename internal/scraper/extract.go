package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/handbook-courses/internal/course"
)

// Metadata marker prefixes found in em tags near the top of a subject page.
const (
	markerCreditPoints = "Credit points"
	markerResultType   = "Result type"
	markerRequisite    = "Requisite"
)

// Extract maps one parsed subject page to a course record. It performs no
// I/O and never fails: markup that is absent leaves the corresponding field
// at its default. Structural surprises in a malformed document may panic;
// the fetch path recovers that panic and reports the code as failed.
func Extract(doc *goquery.Document, code string) *course.Record {
	rec := course.NewRecord(code)

	rec.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	extractMetadata(doc, rec)

	secs := sections(doc)

	if sec, ok := secs[labelDescription]; ok {
		rec.Overview.Description = strings.TrimSpace(sec.body.Filter("p").First().Text())
		if rec.Overview.Description == "" {
			rec.Overview.Description = strings.TrimSpace(sec.body.Find("p").First().Text())
		}
	}
	if sec, ok := secs[labelTeaching]; ok {
		rec.TeachingStrategies = sec.text()
		rec.Overview.TeachingStrategies = sec.blocks()
	}
	if sec, ok := secs[labelTopics]; ok {
		rec.ContentTopics = sec.text()
		rec.Overview.Topics = sec.listItems()
	}
	if sec, ok := secs[labelMinimumReqs]; ok {
		rec.MinimumRequirements = sec.text()
	}
	if sec, ok := secs[labelRecommended]; ok {
		rec.RecommendedTexts = sec.text()
	}
	if sec, ok := secs[labelObjectives]; ok {
		rec.LearningOutcomes = extractOutcomes(sec)
	}
	if sec, ok := secs[labelCILOs]; ok {
		rec.CILOs = extractCILOs(sec)
	}
	if sec, ok := secs[labelAssessment]; ok {
		rec.Assessment = extractAssessment(sec)
	}

	return rec
}

// extractMetadata pulls credit points, result type and requisites from the
// inline em markers. Credit points and result type live in the text that
// follows the marker; the requisite value may contain links, so it is the
// em's own text with the label prefix stripped.
func extractMetadata(doc *goquery.Document, rec *course.Record) {
	doc.Find("em").Each(func(_ int, em *goquery.Selection) {
		text := strings.TrimSpace(em.Text())
		switch {
		case strings.HasPrefix(text, markerCreditPoints):
			rec.CreditPoints = trailingText(em)
		case strings.HasPrefix(text, markerResultType):
			rec.ResultType = trailingText(em)
		case strings.HasPrefix(text, markerRequisite):
			full := spacedText(em)
			full = strings.TrimPrefix(full, "Requisite(s):")
			if v := strings.TrimSpace(full); v != "" {
				rec.Requisites = v
			}
		}
	})
}

// extractOutcomes reads the SLOTable rows, deduplicating by outcome text:
// the first occurrence keeps its position, later duplicates are dropped.
func extractOutcomes(sec section) []course.LearningOutcome {
	outcomes := []course.LearningOutcome{}
	table := sec.findTable("SLOTable")
	if table == nil {
		return outcomes
	}

	seen := make(map[string]bool)
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		th := row.Find("th").First()
		td := row.Find("td").First()
		if th.Length() == 0 || td.Length() == 0 {
			return
		}
		text := strings.TrimSpace(td.Text())
		if seen[text] {
			return
		}
		seen[text] = true
		outcomes = append(outcomes, course.LearningOutcome{
			No:   strings.TrimSuffix(strings.TrimSpace(th.Text()), "."),
			Text: text,
		})
	})
	return outcomes
}

// extractCILOs reads the CILOList items following the CILO heading.
func extractCILOs(sec section) []string {
	cilos := []string{}
	list := sec.body.Filter("ul.CILOList")
	if list.Length() == 0 {
		list = sec.body.Find("ul.CILOList")
	}
	list.First().Find("li").Each(func(_ int, li *goquery.Selection) {
		if text := strings.TrimSpace(li.Text()); text != "" {
			cilos = append(cilos, text)
		}
	})
	return cilos
}

// extractAssessment walks the flat node sequence after the Assessment
// heading as a two-state machine: an h4 opens a task, a details table
// merges into the open task, the next h4 (or the end of the section)
// closes it. Tasks keep document order; a task with no table between its
// heading and the next keeps an empty details map.
func extractAssessment(sec section) []course.AssessmentTask {
	tasks := []course.AssessmentTask{}
	var open *course.AssessmentTask

	emit := func() {
		if open != nil {
			tasks = append(tasks, *open)
			open = nil
		}
	}

	sec.body.Each(func(_ int, sel *goquery.Selection) {
		switch {
		case goquery.NodeName(sel) == "h4":
			emit()
			open = &course.AssessmentTask{
				Title:   strings.TrimSpace(sel.Text()),
				Details: map[string]string{},
			}
		case open != nil:
			table := sel
			if !sel.Is("table.assessmentTaskTable") {
				table = sel.Find("table.assessmentTaskTable").First()
			}
			if table.Length() > 0 {
				mergeDetails(table, open.Details)
			}
		}
	})
	emit()

	return tasks
}

// mergeDetails folds a details table's header/value rows into the task map.
// A repeated header within one task is last-write-wins.
func mergeDetails(table *goquery.Selection, details map[string]string) {
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		th := row.Find("th").First()
		td := row.Find("td").First()
		if th.Length() == 0 || td.Length() == 0 {
			return
		}
		key := strings.TrimSuffix(strings.TrimSpace(th.Text()), ":")
		details[key] = cellText(td)
	})
}
