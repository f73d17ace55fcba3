package enrollment

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/equilibrar/core"
	"github.com/trezcool/equilibrar/core/program"
)

var (
	ErrNotFound          = errors.New("enrollment not found")
	ErrAlreadyEnrolled   = errors.New("patient already enrolled in this program")
	ErrInvalidTransition = errors.New("invalid enrollment status transition")
	ErrWeekOutOfRange    = errors.New("week number out of range")
)

// Enrollment statuses. Completed and cancelled are terminal.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// validTransitions maps a status to the statuses it may move to.
var validTransitions = map[string][]string{
	StatusPending: {StatusActive, StatusCancelled},
	StatusActive:  {StatusCompleted, StatusCancelled},
}

func canTransition(from, to string) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Enrollment ties a patient to a program from a given start date. The start
// date is the sole time reference for the patient's current week.
type Enrollment struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	ProgramID string    `json:"program_id"`
	StartDate time.Time `json:"start_date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CurrentWeek is the enrollment's week at time now.
func (e Enrollment) CurrentWeek(now time.Time) int {
	return CurrentWeek(e.StartDate, now)
}

type NewEnrollment struct {
	PatientID string    `json:"patient_id" validate:"required,uuid4"`
	ProgramID string    `json:"program_id" validate:"required"`
	StartDate time.Time `json:"start_date"`
}

func (ne NewEnrollment) Validate() error {
	ne.PatientID = core.CleanString(ne.PatientID, true)
	ne.ProgramID = core.CleanString(ne.ProgramID, true)
	return core.Validate.Struct(ne)
}

func (ne NewEnrollment) enrollment(now time.Time) Enrollment {
	start := ne.StartDate
	if start.IsZero() {
		start = now
	}
	return Enrollment{
		ID:        uuid.New().String(),
		PatientID: ne.PatientID,
		ProgramID: ne.ProgramID,
		StartDate: start,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WeekProgress is the single mutable record of a patient's activity within
// one program week. There is at most one row per (patient, week); writes go
// through an upsert.
//
// IsLocked mirrors the content gate for client UIs; the gate itself is
// recomputed from the enrollment clock and stays authoritative.
type WeekProgress struct {
	PatientID          string    `json:"client_id"`
	WeekNumber         int       `json:"week_number"`
	IsLocked           bool      `json:"is_locked"`
	IsCompleted        bool      `json:"is_completed"`
	InitialTestDone    bool      `json:"initial_test_done"`
	GuideCompleted     bool      `json:"guide_completed"`
	AudioListenedCount int       `json:"audio_listened_count"`
	MeetingAttended    bool      `json:"meeting_attended"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ProgressUpdate carries the fields of a progress upsert. Nil pointers mean
// "leave as is" on update and "default" on first write. TestResults, when
// present, additionally appends a clinical test result in the same call.
type ProgressUpdate struct {
	WeekNumber         int             `json:"week_number" validate:"required,min=1"`
	IsCompleted        *bool           `json:"is_completed"`
	InitialTestDone    *bool           `json:"initial_test_done"`
	GuideCompleted     *bool           `json:"guide_completed"`
	AudioListenedCount *int            `json:"audio_listened_count" validate:"omitempty,min=0"`
	MeetingAttended    *bool           `json:"meeting_attended"`
	TestResults        *program.Scores `json:"test_results"`
}

func (pu ProgressUpdate) Validate() error {
	if err := core.Validate.Struct(pu); err != nil {
		return err
	}
	if pu.WeekNumber > program.ProgramWeeks {
		return core.NewValidationError(ErrWeekOutOfRange,
			core.FieldError{Field: "week_number", Error: "week_number is out of range"})
	}
	return nil
}

// TestResult is one append-only clinical measurement. Results are never
// updated in place; trend queries order by date.
type TestResult struct {
	ID        string         `json:"id"`
	PatientID string         `json:"client_id"`
	Week      int            `json:"week"`
	Date      time.Time      `json:"date"`
	Scores    program.Scores `json:"scores"`
}
