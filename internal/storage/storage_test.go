package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pfrederiksen/handbook-courses/internal/course"
)

func sampleRecord() *course.Record {
	rec := course.NewRecord("33230")
	rec.Title = "Discrete Mathematics"
	rec.CreditPoints = "6cp"
	rec.ResultType = "Grade and marks"
	rec.Requisites = "33130 Mathematics 1"
	rec.Overview = course.Overview{
		Description:        "Intro to discrete structures.",
		TeachingStrategies: []string{"Workshops"},
		Topics:             []string{"Logic", "Graphs"},
	}
	rec.LearningOutcomes = []course.LearningOutcome{{No: "1", Text: "Analyse discrete structures"}}
	rec.CILOs = []string{"1.1"}
	rec.TeachingStrategies = "Workshops"
	rec.ContentTopics = "Logic\nGraphs"
	rec.Assessment = []course.AssessmentTask{
		{Title: "Quiz", Details: map[string]string{"Type": "Quiz", "Weight": "20%"}},
	}
	rec.MinimumRequirements = "Attempt everything."
	rec.RecommendedTexts = "Rosen."
	return rec
}

func TestSnapshotRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	want := []*course.Record{sampleRecord(), course.NewRecord("48023")}
	if err := store.SaveSnapshot(want); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	got, err := store.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	records, err := store.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot of missing file failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestLoadSnapshotCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, DefaultSnapshotFile), []byte("{not json"), 0644); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	if _, err := store.LoadSnapshot(); err == nil {
		t.Error("expected error for corrupt snapshot")
	}
}

func TestGetByCode(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := store.SaveSnapshot([]*course.Record{sampleRecord()}); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	t.Run("found", func(t *testing.T) {
		rec, err := store.GetByCode("33230")
		if err != nil {
			t.Fatalf("GetByCode failed: %v", err)
		}
		if rec.Title != "Discrete Mathematics" {
			t.Errorf("Title = %q, want %q", rec.Title, "Discrete Mathematics")
		}
	})

	t.Run("not found", func(t *testing.T) {
		if _, err := store.GetByCode("99999"); err == nil {
			t.Error("expected error for unknown code")
		}
	})
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	if _, err := New(dir); err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("data directory was not created: %v", err)
	}
}
