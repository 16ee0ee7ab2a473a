package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/handbook-courses/internal/course"
)

// DefaultSnapshotFile is the snapshot filename inside the data directory.
const DefaultSnapshotFile = "courses.json"

// Storage handles persistence of course snapshots.
type Storage struct {
	dataDir string
}

// New creates a Storage rooted at dataDir, creating the directory if
// needed. A leading ~/ is expanded to the user's home directory.
func New(dataDir string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// SnapshotPath returns the path of the snapshot file.
func (s *Storage) SnapshotPath() string {
	return filepath.Join(s.dataDir, DefaultSnapshotFile)
}

// LoadSnapshot reads the snapshot file. A missing file is not an error and
// yields an empty list, so a server without prefetched data starts clean.
func (s *Storage) LoadSnapshot() ([]*course.Record, error) {
	data, err := os.ReadFile(s.SnapshotPath())
	if err != nil {
		if os.IsNotExist(err) {
			return []*course.Record{}, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var records []*course.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	return records, nil
}

// SaveSnapshot writes records to the snapshot file, indented for diffing.
func (s *Storage) SaveSnapshot(records []*course.Record) error {
	if records == nil {
		records = []*course.Record{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(s.SnapshotPath(), data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// GetByCode retrieves one record from the snapshot by subject code.
func (s *Storage) GetByCode(code string) (*course.Record, error) {
	records, err := s.LoadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	for _, rec := range records {
		if rec.Code == code {
			return rec, nil
		}
	}

	return nil, fmt.Errorf("course not found: %s", code)
}
