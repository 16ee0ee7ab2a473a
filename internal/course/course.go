package course

// DefaultRequisites is substituted when a subject page carries no requisite
// marker, so consumers can rely on the field always being present.
const DefaultRequisites = "None specified"

// Record represents one handbook subject, fully extracted.
//
// Every field is populated on extraction: absent markup yields an empty
// string or empty slice, never a missing key. Code is the caller-supplied
// subject code and is always echoed back, even when extraction fails
// upstream (see Outcome).
type Record struct {
	Code                string            `json:"code"`
	Title               string            `json:"title"`
	CreditPoints        string            `json:"credit_points"`
	ResultType          string            `json:"result_type"`
	Requisites          string            `json:"requisites"`
	Overview            Overview          `json:"overview"`
	LearningOutcomes    []LearningOutcome `json:"learning_outcomes"`
	CILOs               []string          `json:"cilos"`
	TeachingStrategies  string            `json:"teaching_strategies"`
	ContentTopics       string            `json:"content_topics"`
	Assessment          []AssessmentTask  `json:"assessment"`
	MinimumRequirements string            `json:"minimum_requirements"`
	RecommendedTexts    string            `json:"recommended_texts"`
}

// Overview groups the narrative sections of a subject page.
type Overview struct {
	Description        string   `json:"description"`
	TeachingStrategies []string `json:"teaching_strategies"`
	Topics             []string `json:"topics"`
}

// LearningOutcome is one row of the subject learning objectives table.
// Within a record, Text is unique: duplicates are dropped at extraction
// time, first occurrence wins.
type LearningOutcome struct {
	No   string `json:"no"`
	Text string `json:"text"`
}

// AssessmentTask is one assessment item with its detail table flattened
// into a label->value map. The site defines the labels ("Type", "Weight",
// "Length", ...); no fixed key set is guaranteed, whatever was present is
// preserved. A repeated label within one table is last-write-wins.
type AssessmentTask struct {
	Title   string            `json:"title"`
	Details map[string]string `json:"details"`
}

// NewRecord returns a Record for code with every collection initialized and
// Requisites set to DefaultRequisites. Extraction overwrites fields it finds
// markup for and leaves the rest at these defaults.
func NewRecord(code string) *Record {
	return &Record{
		Code:             code,
		Requisites:       DefaultRequisites,
		LearningOutcomes: []LearningOutcome{},
		CILOs:            []string{},
		Assessment:       []AssessmentTask{},
		Overview: Overview{
			TeachingStrategies: []string{},
			Topics:             []string{},
		},
	}
}

// Outcome is the per-code result of a batch fetch: either a populated
// Record, or Err describing why the code could not be resolved. Code is
// always the originally requested code.
type Outcome struct {
	Code   string
	Record *Record
	Err    string
}

// Failed reports whether the outcome carries an error instead of a record.
func (o Outcome) Failed() bool {
	return o.Err != ""
}
