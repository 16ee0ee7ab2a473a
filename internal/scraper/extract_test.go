package scraper

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/handbook-courses/internal/course"
)

func loadFixture(t *testing.T, path string) *goquery.Document {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return doc
}

func TestExtractFullPage(t *testing.T) {
	doc := loadFixture(t, "testdata/subject_33230.html")
	rec := Extract(doc, "33230")

	if rec.Code != "33230" {
		t.Errorf("Code = %q, want %q", rec.Code, "33230")
	}
	if rec.Title != "Discrete Mathematics" {
		t.Errorf("Title = %q, want %q", rec.Title, "Discrete Mathematics")
	}
	if rec.CreditPoints != "6cp" {
		t.Errorf("CreditPoints = %q, want %q", rec.CreditPoints, "6cp")
	}
	if rec.ResultType != "Grade and marks" {
		t.Errorf("ResultType = %q, want %q", rec.ResultType, "Grade and marks")
	}

	wantReq := "33130 Mathematics 1 AND 48023 Programming Fundamentals"
	if rec.Requisites != wantReq {
		t.Errorf("Requisites = %q, want %q", rec.Requisites, wantReq)
	}

	wantDesc := "This subject introduces discrete mathematical structures."
	if rec.Overview.Description != wantDesc {
		t.Errorf("Overview.Description = %q, want %q", rec.Overview.Description, wantDesc)
	}

	wantTeaching := "Workshops combining collaborative problem solving with short lectures.\n\nOnline modules completed before each workshop."
	if rec.TeachingStrategies != wantTeaching {
		t.Errorf("TeachingStrategies = %q, want %q", rec.TeachingStrategies, wantTeaching)
	}
	if len(rec.Overview.TeachingStrategies) != 2 {
		t.Errorf("Overview.TeachingStrategies has %d entries, want 2", len(rec.Overview.TeachingStrategies))
	}

	wantTopics := []string{
		"Propositional and predicate logic",
		"Set theory and relations",
		"Graph theory",
	}
	if !reflect.DeepEqual(rec.Overview.Topics, wantTopics) {
		t.Errorf("Overview.Topics = %v, want %v", rec.Overview.Topics, wantTopics)
	}
	if rec.ContentTopics != strings.Join(wantTopics, "\n") {
		t.Errorf("ContentTopics = %q, want %q", rec.ContentTopics, strings.Join(wantTopics, "\n"))
	}

	if !strings.HasPrefix(rec.MinimumRequirements, "Students must attempt") {
		t.Errorf("MinimumRequirements = %q, want attempt-every-task text", rec.MinimumRequirements)
	}
	if !strings.Contains(rec.RecommendedTexts, "Rosen") || !strings.Contains(rec.RecommendedTexts, "Canvas") {
		t.Errorf("RecommendedTexts = %q, want both text blocks", rec.RecommendedTexts)
	}

	wantCILOs := []string{
		"Apply systematically the scientific method (1.1)",
		"Formulate and solve abstract problems (2.1)",
	}
	if !reflect.DeepEqual(rec.CILOs, wantCILOs) {
		t.Errorf("CILOs = %v, want %v", rec.CILOs, wantCILOs)
	}
}

func TestExtractLearningOutcomesDedup(t *testing.T) {
	doc := loadFixture(t, "testdata/subject_33230.html")
	rec := Extract(doc, "33230")

	// Row 3 repeats row 1's text and must be dropped; row 4 survives.
	want := []course.LearningOutcome{
		{No: "1", Text: "Analyse discrete structures"},
		{No: "2", Text: "Construct rigorous proofs"},
		{No: "4", Text: "Model problems with graphs"},
	}
	if !reflect.DeepEqual(rec.LearningOutcomes, want) {
		t.Errorf("LearningOutcomes = %v, want %v", rec.LearningOutcomes, want)
	}
}

func TestExtractAssessment(t *testing.T) {
	doc := loadFixture(t, "testdata/subject_33230.html")
	rec := Extract(doc, "33230")

	if len(rec.Assessment) != 3 {
		t.Fatalf("Assessment has %d tasks, want 3", len(rec.Assessment))
	}

	t.Run("first task merges its table", func(t *testing.T) {
		task := rec.Assessment[0]
		if task.Title != "Assessment task 1: Weekly quizzes" {
			t.Errorf("Title = %q", task.Title)
		}
		want := map[string]string{
			"Type":      "Quiz",
			"Groupwork": "Individual",
			"Weight":    "20%",
		}
		if !reflect.DeepEqual(task.Details, want) {
			t.Errorf("Details = %v, want %v", task.Details, want)
		}
	})

	t.Run("heading with no table keeps empty details", func(t *testing.T) {
		task := rec.Assessment[1]
		if task.Title != "Assessment task 2: Class test" {
			t.Errorf("Title = %q", task.Title)
		}
		if task.Details == nil {
			t.Fatal("Details is nil, want empty map")
		}
		if len(task.Details) != 0 {
			t.Errorf("Details = %v, want empty map", task.Details)
		}
	})

	t.Run("repeated detail key is last-write-wins", func(t *testing.T) {
		task := rec.Assessment[2]
		if got := task.Details["Type"]; got != "Centrally conducted examination" {
			t.Errorf("Details[Type] = %q, want %q", got, "Centrally conducted examination")
		}
	})

	t.Run("multi-block cell joins with newlines", func(t *testing.T) {
		task := rec.Assessment[2]
		want := "2 hours\nplus 10 minutes reading time"
		if got := task.Details["Length"]; got != want {
			t.Errorf("Details[Length] = %q, want %q", got, want)
		}
	})
}

func TestExtractMissingSections(t *testing.T) {
	doc := parseHTML(t, `<html><body><div><h1>Bare Subject</h1><p>No sections here.</p></div></body></html>`)
	rec := Extract(doc, "99999")

	if rec.Code != "99999" {
		t.Errorf("Code = %q, want %q", rec.Code, "99999")
	}
	if rec.Title != "Bare Subject" {
		t.Errorf("Title = %q, want %q", rec.Title, "Bare Subject")
	}
	if rec.Requisites != course.DefaultRequisites {
		t.Errorf("Requisites = %q, want default %q", rec.Requisites, course.DefaultRequisites)
	}
	if len(rec.Assessment) != 0 {
		t.Errorf("Assessment = %v, want empty", rec.Assessment)
	}
	if len(rec.LearningOutcomes) != 0 {
		t.Errorf("LearningOutcomes = %v, want empty", rec.LearningOutcomes)
	}
	if rec.Overview.Description != "" || rec.ContentTopics != "" {
		t.Error("narrative fields should be empty on a bare page")
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	doc := parseHTML(t, `<html><body></body></html>`)
	rec := Extract(doc, "00000")

	if rec.Title != "" {
		t.Errorf("Title = %q, want empty", rec.Title)
	}
	if rec.Assessment == nil || rec.LearningOutcomes == nil || rec.CILOs == nil {
		t.Error("collections must stay initialized on an empty document")
	}
}

func TestExtractAssessmentTableBeforeHeading(t *testing.T) {
	// A stray table before any h4 belongs to no task and is ignored.
	doc := parseHTML(t, `<html><body><div>
<h3>Assessment</h3>
<table class="assessmentTaskTable"><tr><th>Type:</th><td>Orphan</td></tr></table>
<h4>Task A</h4>
<table class="assessmentTaskTable"><tr><th>Type:</th><td>Quiz</td></tr></table>
</div></body></html>`)
	rec := Extract(doc, "11111")

	if len(rec.Assessment) != 1 {
		t.Fatalf("Assessment has %d tasks, want 1", len(rec.Assessment))
	}
	if got := rec.Assessment[0].Details["Type"]; got != "Quiz" {
		t.Errorf("Details[Type] = %q, want %q", got, "Quiz")
	}
}

func TestExtractMetadataMarkers(t *testing.T) {
	tests := []struct {
		name       string
		html       string
		creditPts  string
		resultType string
		requisites string
	}{
		{
			name:       "all markers present",
			html:       `<p><em>Credit points:</em> 8cp</p><p><em>Result type:</em> Pass fail</p><p><em>Requisite(s): 31251 Data Structures</em></p>`,
			creditPts:  "8cp",
			resultType: "Pass fail",
			requisites: "31251 Data Structures",
		},
		{
			name:       "no markers falls back to defaults",
			html:       `<p><em>Anti-requisite information</em></p>`,
			creditPts:  "",
			resultType: "",
			requisites: course.DefaultRequisites,
		},
		{
			name:       "empty requisite marker keeps default",
			html:       `<p><em>Requisite(s):</em></p>`,
			creditPts:  "",
			resultType: "",
			requisites: course.DefaultRequisites,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Extract(parseHTML(t, "<html><body>"+tt.html+"</body></html>"), "x")
			if rec.CreditPoints != tt.creditPts {
				t.Errorf("CreditPoints = %q, want %q", rec.CreditPoints, tt.creditPts)
			}
			if rec.ResultType != tt.resultType {
				t.Errorf("ResultType = %q, want %q", rec.ResultType, tt.resultType)
			}
			if rec.Requisites != tt.requisites {
				t.Errorf("Requisites = %q, want %q", rec.Requisites, tt.requisites)
			}
		})
	}
}
