package batch

import (
	"encoding/json"

	"github.com/pfrederiksen/handbook-courses/internal/course"
)

// Event types emitted by a batch run.
const (
	EventProgress = "progress"
	EventComplete = "complete"
)

// Event is one line of the batch stream: either a progress notification for
// a just-finished code, or the terminal complete event carrying every
// outcome in input order.
type Event struct {
	Type      string
	Completed int
	Total     int
	Code      string
	Error     string
	Results   []course.Outcome
}

// Progress builds a progress event for a finished outcome.
func Progress(completed, total int, out course.Outcome) Event {
	return Event{
		Type:      EventProgress,
		Completed: completed,
		Total:     total,
		Code:      out.Code,
		Error:     out.Err,
	}
}

// Complete builds the terminal event. A nil results slice is normalized to
// empty so the wire form always carries a results array.
func Complete(results []course.Outcome) Event {
	if results == nil {
		results = []course.Outcome{}
	}
	return Event{
		Type:    EventComplete,
		Results: results,
	}
}

type progressJSON struct {
	Type      string `json:"type"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Code      string `json:"code"`
	Error     string `json:"error,omitempty"`
}

type completeJSON struct {
	Type    string           `json:"type"`
	Results []course.Outcome `json:"results"`
}

// MarshalJSON keeps the two event shapes distinct on the wire: progress
// events never carry a results array, the complete event always does.
func (e Event) MarshalJSON() ([]byte, error) {
	if e.Type == EventComplete {
		results := e.Results
		if results == nil {
			results = []course.Outcome{}
		}
		return json.Marshal(completeJSON{Type: e.Type, Results: results})
	}
	return json.Marshal(progressJSON{
		Type:      e.Type,
		Completed: e.Completed,
		Total:     e.Total,
		Code:      e.Code,
		Error:     e.Error,
	})
}
