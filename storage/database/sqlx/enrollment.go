package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/equilibrar/core/enrollment"
	"github.com/trezcool/equilibrar/core/program"
)

type enrollmentRepository struct {
	db *sqlx.DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *sqlx.DB) enrollment.Repository {
	return &enrollmentRepository{db: db}
}

type enrollmentRow struct {
	ID        string    `db:"id"`
	PatientID string    `db:"patient_id"`
	ProgramID string    `db:"program_id"`
	StartDate time.Time `db:"start_date"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r enrollmentRow) enrollment() enrollment.Enrollment {
	return enrollment.Enrollment(r)
}

const enrollmentCols = "id, patient_id, program_id, start_date, status, created_at, updated_at"

func (repo *enrollmentRepository) CreateEnrollment(ctx context.Context, enr enrollment.Enrollment) error {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO enrollments (id, patient_id, program_id, start_date, status, created_at, updated_at)
		VALUES (:id, :patient_id, :program_id, :start_date, :status, :created_at, :updated_at)`,
		enrollmentRow(enr))
	if isUniqueViolation(err) {
		return enrollment.ErrAlreadyEnrolled
	}
	return errors.Wrap(err, "inserting enrollment")
}

func (repo *enrollmentRepository) GetEnrollmentByID(ctx context.Context, id string) (enrollment.Enrollment, error) {
	var row enrollmentRow
	err := repo.db.GetContext(ctx, &row, "SELECT "+enrollmentCols+" FROM enrollments WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	} else if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "getting enrollment")
	}
	return row.enrollment(), nil
}

func (repo *enrollmentRepository) GetActiveEnrollment(ctx context.Context, patientID string) (enrollment.Enrollment, error) {
	var row enrollmentRow
	err := repo.db.GetContext(ctx, &row,
		"SELECT "+enrollmentCols+" FROM enrollments WHERE patient_id = $1 AND status = $2",
		patientID, enrollment.StatusActive)
	if err == sql.ErrNoRows {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	} else if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "getting active enrollment")
	}
	return row.enrollment(), nil
}

func (repo *enrollmentRepository) QueryEnrollmentsByPatient(ctx context.Context, patientID string) ([]enrollment.Enrollment, error) {
	return repo.query(ctx, "patient_id", patientID)
}

func (repo *enrollmentRepository) QueryEnrollmentsByProgram(ctx context.Context, programID string) ([]enrollment.Enrollment, error) {
	return repo.query(ctx, "program_id", programID)
}

func (repo *enrollmentRepository) query(ctx context.Context, col, val string) ([]enrollment.Enrollment, error) {
	var rows []enrollmentRow
	q := "SELECT " + enrollmentCols + " FROM enrollments WHERE " + col + " = $1 ORDER BY start_date"
	if err := repo.db.SelectContext(ctx, &rows, q, val); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	enrs := make([]enrollment.Enrollment, 0, len(rows))
	for _, r := range rows {
		enrs = append(enrs, r.enrollment())
	}
	return enrs, nil
}

func (repo *enrollmentRepository) UpdateEnrollmentStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	res, err := repo.db.ExecContext(ctx,
		"UPDATE enrollments SET status = $2, updated_at = $3 WHERE id = $1", id, status, updatedAt)
	if err != nil {
		return errors.Wrap(err, "updating enrollment status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return enrollment.ErrNotFound
	}
	return nil
}

type progressRow struct {
	PatientID          string    `db:"patient_id"`
	WeekNumber         int       `db:"week_number"`
	IsLocked           bool      `db:"is_locked"`
	IsCompleted        bool      `db:"is_completed"`
	InitialTestDone    bool      `db:"initial_test_done"`
	GuideCompleted     bool      `db:"guide_completed"`
	AudioListenedCount int       `db:"audio_listened_count"`
	MeetingAttended    bool      `db:"meeting_attended"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func (r progressRow) progress() enrollment.WeekProgress {
	return enrollment.WeekProgress(r)
}

const progressCols = "patient_id, week_number, is_locked, is_completed, initial_test_done, guide_completed, audio_listened_count, meeting_attended, updated_at"

func (repo *enrollmentRepository) GetProgress(ctx context.Context, patientID string, week int) (enrollment.WeekProgress, error) {
	var row progressRow
	err := repo.db.GetContext(ctx, &row,
		"SELECT "+progressCols+" FROM week_progress WHERE patient_id = $1 AND week_number = $2",
		patientID, week)
	if err == sql.ErrNoRows {
		return enrollment.WeekProgress{}, enrollment.ErrNotFound
	} else if err != nil {
		return enrollment.WeekProgress{}, errors.Wrap(err, "getting progress")
	}
	return row.progress(), nil
}

func (repo *enrollmentRepository) QueryProgressByPatient(ctx context.Context, patientID string) ([]enrollment.WeekProgress, error) {
	var rows []progressRow
	err := repo.db.SelectContext(ctx, &rows,
		"SELECT "+progressCols+" FROM week_progress WHERE patient_id = $1 ORDER BY week_number", patientID)
	if err != nil {
		return nil, errors.Wrap(err, "querying progress")
	}
	recs := make([]enrollment.WeekProgress, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, r.progress())
	}
	return recs, nil
}

// UpsertProgress creates or merges the single progress row of a
// (patient, week). COALESCE keeps existing values for fields the update does
// not provide; the locked flag is cleared on every write.
func (repo *enrollmentRepository) UpsertProgress(ctx context.Context, patientID string, up enrollment.ProgressUpdate, now time.Time) (enrollment.WeekProgress, error) {
	var row progressRow
	err := repo.db.GetContext(ctx, &row, `
		INSERT INTO week_progress
		    (patient_id, week_number, is_locked, is_completed, initial_test_done,
		     guide_completed, audio_listened_count, meeting_attended, updated_at)
		VALUES ($1, $2, FALSE, COALESCE($3, FALSE), COALESCE($4, FALSE),
		        COALESCE($5, FALSE), COALESCE($6, 0), COALESCE($7, FALSE), $8)
		ON CONFLICT (patient_id, week_number) DO UPDATE
		SET is_locked            = FALSE,
		    is_completed         = COALESCE($3, week_progress.is_completed),
		    initial_test_done    = COALESCE($4, week_progress.initial_test_done),
		    guide_completed      = COALESCE($5, week_progress.guide_completed),
		    audio_listened_count = COALESCE($6, week_progress.audio_listened_count),
		    meeting_attended     = COALESCE($7, week_progress.meeting_attended),
		    updated_at           = $8
		RETURNING `+progressCols,
		patientID, up.WeekNumber,
		null.BoolFromPtr(up.IsCompleted), null.BoolFromPtr(up.InitialTestDone),
		null.BoolFromPtr(up.GuideCompleted), null.IntFromPtr(up.AudioListenedCount),
		null.BoolFromPtr(up.MeetingAttended), now)
	if err != nil {
		return enrollment.WeekProgress{}, errors.Wrap(err, "upserting progress")
	}
	return row.progress(), nil
}

type testResultRow struct {
	ID                      string    `db:"id"`
	PatientID               string    `db:"patient_id"`
	Week                    int       `db:"week"`
	Date                    time.Time `db:"date"`
	SelfJudgment            int       `db:"score_autojuicio"`
	MaladaptiveGuilt        int       `db:"score_culpa_no_adaptativa"`
	ConsciousResponsibility int       `db:"score_responsabilidad_consciente"`
	ErrorHumanization       int       `db:"score_humanizacion_error"`
}

func (r testResultRow) result() enrollment.TestResult {
	return enrollment.TestResult{
		ID:        r.ID,
		PatientID: r.PatientID,
		Week:      r.Week,
		Date:      r.Date,
		Scores: program.Scores{
			SelfJudgment:            r.SelfJudgment,
			MaladaptiveGuilt:        r.MaladaptiveGuilt,
			ConsciousResponsibility: r.ConsciousResponsibility,
			ErrorHumanization:       r.ErrorHumanization,
		},
	}
}

const testResultCols = "id, patient_id, week, date, score_autojuicio, score_culpa_no_adaptativa, score_responsabilidad_consciente, score_humanizacion_error"

func (repo *enrollmentRepository) InsertTestResult(ctx context.Context, res enrollment.TestResult) error {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO test_results (`+testResultCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		res.ID, res.PatientID, res.Week, res.Date,
		res.Scores.SelfJudgment, res.Scores.MaladaptiveGuilt,
		res.Scores.ConsciousResponsibility, res.Scores.ErrorHumanization)
	return errors.Wrap(err, "inserting test result")
}

func (repo *enrollmentRepository) QueryTestResults(ctx context.Context, patientID string) ([]enrollment.TestResult, error) {
	var rows []testResultRow
	err := repo.db.SelectContext(ctx, &rows,
		"SELECT "+testResultCols+" FROM test_results WHERE patient_id = $1 ORDER BY date", patientID)
	if err != nil {
		return nil, errors.Wrap(err, "querying test results")
	}
	results := make([]enrollment.TestResult, 0, len(rows))
	for _, r := range rows {
		results = append(results, r.result())
	}
	return results, nil
}

func (repo *enrollmentRepository) LatestTestResult(ctx context.Context, patientID string) (enrollment.TestResult, error) {
	var row testResultRow
	err := repo.db.GetContext(ctx, &row,
		"SELECT "+testResultCols+" FROM test_results WHERE patient_id = $1 ORDER BY date DESC LIMIT 1", patientID)
	if err == sql.ErrNoRows {
		return enrollment.TestResult{}, enrollment.ErrNotFound
	} else if err != nil {
		return enrollment.TestResult{}, errors.Wrap(err, "getting latest test result")
	}
	return row.result(), nil
}
