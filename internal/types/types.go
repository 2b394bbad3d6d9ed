// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// the store, the handlers, the backend client and the terminal UI can all
// import types without depending on each other.
//
// The shapes mirror what the backend returns. Nothing in this service owns
// student data: the backend is the source of truth, these structs only
// describe what travels over the wire.
package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate caches struct metadata, so one instance is shared by every decode.
var validate = validator.New()

// Student represents one student record as returned by GET <backend>/students.
//
// RegisterNo is the natural key. Uniqueness is enforced by the backend,
// never here.
//
// Semesters is kept as the raw JSON string the backend sends. It is only
// decoded on demand by display code (see DecodeSemesters).
type Student struct {
	RegisterNo     string   `json:"register_no"`
	Name           string   `json:"name"`
	CGPA           *float64 `json:"cgpa"` // null until the backend has computed it
	Course         string   `json:"course"`
	School         string   `json:"school"`
	CourseDuration string   `json:"course_duration"`
	Semesters      string   `json:"semesters"`
}

// Semester is one exam sitting inside a student's semester history.
type Semester struct {
	ExamScheduleTimetableID string    `json:"exam_schedule_timetable_id" validate:"required"`
	SemesterNo              int       `json:"semester_no"                validate:"gte=0"`
	ResultStatus            string    `json:"result_status"`
	BlockStatus             bool      `json:"block_status"`
	BlockReason             *string   `json:"block_reason"`
	Ordinance               string    `json:"ordinance"`
	PassingYear             int       `json:"passing_year"`
	PassingMonth            string    `json:"passing_month"`
	SGPA                    float64   `json:"sgpa"`
	TotalCredits            float64   `json:"total_credits"`
	EarnedCredits           float64   `json:"earned_credits"`
	ObtainedMarks           float64   `json:"obtained_marks"`
	OutOfMarks              float64   `json:"out_of_marks"`
	Subjects                []Subject `json:"subjects"                   validate:"dive"`
}

// Subject is a single subject result inside a Semester.
type Subject struct {
	SubjectCode          string  `json:"subject_code" validate:"required"`
	SubjectName          string  `json:"subject_name"`
	InternalMarks        float64 `json:"internal_marks"`
	InternalPassingMarks float64 `json:"internal_passing_marks"`
	MaxInternalMarks     float64 `json:"max_internal_marks"`
	ExternalMarks        float64 `json:"external_marks"`
	ExternalPassingMarks float64 `json:"external_passing_marks"`
	MaxExternalMarks     float64 `json:"max_external_marks"`
	Grade                string  `json:"grade"`
	GradePoint           float64 `json:"grade_point"`
	CreditsObtained      float64 `json:"credits_obtained"`
	MaxCredits           float64 `json:"max_credits"`
}

// SGPAPoint is one entry of GET <backend>/sgpa_progression/{register_no}.
type SGPAPoint struct {
	Semester int      `json:"semester"`
	Year     int      `json:"year"`
	Month    string   `json:"month"`
	SGPA     *float64 `json:"sgpa"`
}

// FetcherResult is the body the backend returns from POST /api/run-fetcher.
// The same shape (with Error set) is used as the failure envelope of the
// fetch-results proxy.
type FetcherResult struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`
	Error   string `json:"error,omitempty"`
}

// DecodeSemesters parses the opaque Semesters blob into structured records.
// An empty blob (and JSON null) decodes to an empty, non-nil slice.
func (s Student) DecodeSemesters() ([]Semester, error) {
	semesters := make([]Semester, 0)
	if s.Semesters == "" {
		return semesters, nil
	}

	if err := json.Unmarshal([]byte(s.Semesters), &semesters); err != nil {
		return nil, fmt.Errorf("DecodeSemesters %s: %w", s.RegisterNo, err)
	}
	if semesters == nil {
		semesters = make([]Semester, 0)
	}

	// The dive tag on Subjects walks into every subject of the semester.
	for i := range semesters {
		if err := validate.Struct(semesters[i]); err != nil {
			return nil, fmt.Errorf("DecodeSemesters %s: semester %d: %w", s.RegisterNo, i, err)
		}
	}

	return semesters, nil
}

// FetcherRun is one journal entry of POST /api/fetch-results.
type FetcherRun struct {
	ID            int64     `json:"id"`
	RequestID     string    `json:"request_id"`
	StartedAt     time.Time `json:"started_at"`
	DurationMS    int64     `json:"duration_ms"`
	Succeeded     bool      `json:"succeeded"`
	BackendStatus int       `json:"backend_status"` // 0 when the backend never answered
}
