package enrollment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/equilibrar/core/program"
)

// Repository persists enrollments, weekly progress records and clinical test
// results.
type Repository interface {
	CreateEnrollment(ctx context.Context, enr Enrollment) error
	GetEnrollmentByID(ctx context.Context, id string) (Enrollment, error)
	GetActiveEnrollment(ctx context.Context, patientID string) (Enrollment, error)
	QueryEnrollmentsByPatient(ctx context.Context, patientID string) ([]Enrollment, error)
	QueryEnrollmentsByProgram(ctx context.Context, programID string) ([]Enrollment, error)
	UpdateEnrollmentStatus(ctx context.Context, id, status string, updatedAt time.Time) error

	GetProgress(ctx context.Context, patientID string, week int) (WeekProgress, error)
	QueryProgressByPatient(ctx context.Context, patientID string) ([]WeekProgress, error)
	UpsertProgress(ctx context.Context, patientID string, up ProgressUpdate, now time.Time) (WeekProgress, error)

	InsertTestResult(ctx context.Context, res TestResult) error
	QueryTestResults(ctx context.Context, patientID string) ([]TestResult, error)
	LatestTestResult(ctx context.Context, patientID string) (TestResult, error)
}

type Service struct {
	repo     Repository
	programs *program.Service
}

func NewService(repo Repository, programs *program.Service) *Service {
	return &Service{repo: repo, programs: programs}
}

// Enroll starts a patient on a program. A patient can have at most one
// active enrollment at a time.
func (svc *Service) Enroll(ctx context.Context, ne NewEnrollment) (Enrollment, error) {
	if err := ne.Validate(); err != nil {
		return Enrollment{}, err
	}
	if _, err := svc.programs.GetByID(ne.ProgramID); err != nil {
		return Enrollment{}, errors.Wrapf(err, "program %s", ne.ProgramID)
	}
	if _, err := svc.repo.GetActiveEnrollment(ctx, ne.PatientID); err == nil {
		return Enrollment{}, ErrAlreadyEnrolled
	} else if errors.Cause(err) != ErrNotFound {
		return Enrollment{}, err
	}
	enr := ne.enrollment(time.Now().UTC())
	if err := svc.repo.CreateEnrollment(ctx, enr); err != nil {
		return Enrollment{}, errors.Wrap(err, "creating enrollment")
	}
	return enr, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Enrollment, error) {
	return svc.repo.GetEnrollmentByID(ctx, id)
}

func (svc *Service) GetActive(ctx context.Context, patientID string) (Enrollment, error) {
	return svc.repo.GetActiveEnrollment(ctx, patientID)
}

func (svc *Service) QueryByPatient(ctx context.Context, patientID string) ([]Enrollment, error) {
	return svc.repo.QueryEnrollmentsByPatient(ctx, patientID)
}

func (svc *Service) QueryByProgram(ctx context.Context, programID string) ([]Enrollment, error) {
	return svc.repo.QueryEnrollmentsByProgram(ctx, programID)
}

// SetStatus moves an enrollment through its lifecycle. Completed and
// cancelled enrollments cannot change status again.
func (svc *Service) SetStatus(ctx context.Context, id, status string) (Enrollment, error) {
	enr, err := svc.repo.GetEnrollmentByID(ctx, id)
	if err != nil {
		return Enrollment{}, err
	}
	if !canTransition(enr.Status, status) {
		return Enrollment{}, ErrInvalidTransition
	}
	now := time.Now().UTC()
	if err := svc.repo.UpdateEnrollmentStatus(ctx, id, status, now); err != nil {
		return Enrollment{}, errors.Wrap(err, "updating enrollment status")
	}
	enr.Status = status
	enr.UpdatedAt = now
	return enr, nil
}

// VisibleSessions is a patient's gated view of their program content for the
// current week.
func (svc *Service) VisibleSessions(ctx context.Context, patientID string, now time.Time) ([]program.GatedSession, error) {
	enr, err := svc.repo.GetActiveEnrollment(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return svc.programs.VisibleSessions(enr.ProgramID, enr.CurrentWeek(now))
}

// UpsertProgress records a patient's activity for one week. A first write
// creates the record with defaults; later writes merge only the provided
// fields. Every write clears the locked flag since the patient reaching this
// path means the week's content was reachable.
//
// When the update embeds test results, those are appended as an independent
// clinical measurement after the progress write; a validation failure on the
// scores does not undo the progress upsert.
func (svc *Service) UpsertProgress(ctx context.Context, patientID string, up ProgressUpdate) (WeekProgress, error) {
	if err := up.Validate(); err != nil {
		return WeekProgress{}, err
	}
	now := time.Now().UTC()
	wp, err := svc.repo.UpsertProgress(ctx, patientID, up, now)
	if err != nil {
		return WeekProgress{}, errors.Wrap(err, "upserting progress")
	}
	if up.TestResults != nil {
		if err := svc.RecordTestResult(ctx, patientID, up.WeekNumber, *up.TestResults); err != nil {
			return wp, err
		}
	}
	return wp, nil
}

func (svc *Service) GetProgress(ctx context.Context, patientID string, week int) (WeekProgress, error) {
	return svc.repo.GetProgress(ctx, patientID, week)
}

func (svc *Service) QueryProgress(ctx context.Context, patientID string) ([]WeekProgress, error) {
	return svc.repo.QueryProgressByPatient(ctx, patientID)
}

// RecordTestResult appends a clinical test result. Scores outside the valid
// subscale ranges are rejected before anything is persisted.
func (svc *Service) RecordTestResult(ctx context.Context, patientID string, week int, scores program.Scores) error {
	if week < 1 || week > program.ProgramWeeks {
		return ErrWeekOutOfRange
	}
	if err := scores.Validate(); err != nil {
		return err
	}
	res := TestResult{
		ID:        uuid.New().String(),
		PatientID: patientID,
		Week:      week,
		Date:      time.Now().UTC(),
		Scores:    scores,
	}
	return errors.Wrap(svc.repo.InsertTestResult(ctx, res), "inserting test result")
}

func (svc *Service) QueryTestResults(ctx context.Context, patientID string) ([]TestResult, error) {
	return svc.repo.QueryTestResults(ctx, patientID)
}

func (svc *Service) LatestTestResult(ctx context.Context, patientID string) (TestResult, error) {
	return svc.repo.LatestTestResult(ctx, patientID)
}
