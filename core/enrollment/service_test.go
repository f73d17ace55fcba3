package enrollment_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/equilibrar/core"
	"github.com/trezcool/equilibrar/core/enrollment"
	"github.com/trezcool/equilibrar/core/program"
	dummydb "github.com/trezcool/equilibrar/storage/database/dummy"
	testutil "github.com/trezcool/equilibrar/tests"
)

var ctx = context.Background()

func setup(t *testing.T) (*enrollment.Service, enrollment.Repository) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	repo := dummydb.NewEnrollmentRepository(db)
	return enrollment.NewService(repo, program.NewService(program.NewCatalog())), repo
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

const patientID = "6f9619ff-8b86-4d01-b42d-00cf4fc964ff"

func TestService_Enroll(t *testing.T) {
	svc, _ := setup(t)

	tests := []struct {
		name    string
		ne      enrollment.NewEnrollment
		wantErr error
	}{
		{
			name:    "unknown program",
			ne:      enrollment.NewEnrollment{PatientID: patientID, ProgramID: "p-nope"},
			wantErr: program.ErrNotFound,
		},
		{
			name: "ok",
			ne:   enrollment.NewEnrollment{PatientID: patientID, ProgramID: program.ProgramCulpaID},
		},
		{
			name:    "already enrolled",
			ne:      enrollment.NewEnrollment{PatientID: patientID, ProgramID: program.ProgramAngustiaID},
			wantErr: enrollment.ErrAlreadyEnrolled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enr, err := svc.Enroll(ctx, tt.ne)
			if tt.wantErr != nil {
				if errors.Cause(err) != tt.wantErr {
					t.Fatalf("Enroll() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Enroll() unexpected error: %v", err)
			}
			if enr.Status != enrollment.StatusActive {
				t.Errorf("Enroll() status = %s, want %s", enr.Status, enrollment.StatusActive)
			}
			if enr.StartDate.IsZero() {
				t.Error("Enroll() did not default the start date")
			}
		})
	}

	t.Run("invalid patient id", func(t *testing.T) {
		_, err := svc.Enroll(ctx, enrollment.NewEnrollment{PatientID: "lol", ProgramID: program.ProgramCulpaID})
		if err == nil {
			t.Fatal("Enroll() expected a validation error")
		}
	})
}

func TestService_SetStatus(t *testing.T) {
	svc, repo := setup(t)

	newEnr := func(id, status string) enrollment.Enrollment {
		enr := enrollment.Enrollment{
			ID:        id,
			PatientID: id + "-patient",
			ProgramID: program.ProgramCulpaID,
			StartDate: time.Now().UTC(),
			Status:    status,
		}
		if err := repo.CreateEnrollment(ctx, enr); err != nil {
			t.Fatalf("CreateEnrollment() failed: %v", err)
		}
		return enr
	}
	newEnr("e1", enrollment.StatusPending)
	newEnr("e2", enrollment.StatusActive)
	newEnr("e3", enrollment.StatusCompleted)
	newEnr("e4", enrollment.StatusCancelled)

	tests := []struct {
		name    string
		id      string
		status  string
		wantErr error
	}{
		{name: "not found", id: "nope", status: enrollment.StatusActive, wantErr: enrollment.ErrNotFound},
		{name: "pending to active", id: "e1", status: enrollment.StatusActive},
		{name: "active to completed", id: "e2", status: enrollment.StatusCompleted},
		{name: "completed is terminal", id: "e3", status: enrollment.StatusCancelled, wantErr: enrollment.ErrInvalidTransition},
		{name: "cancelled is terminal", id: "e4", status: enrollment.StatusActive, wantErr: enrollment.ErrInvalidTransition},
		{name: "no skipping back to pending", id: "e2", status: enrollment.StatusPending, wantErr: enrollment.ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enr, err := svc.SetStatus(ctx, tt.id, tt.status)
			if errors.Cause(err) != tt.wantErr {
				t.Fatalf("SetStatus() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && enr.Status != tt.status {
				t.Errorf("SetStatus() status = %s, want %s", enr.Status, tt.status)
			}
		})
	}
}

func TestService_UpsertProgress(t *testing.T) {
	svc, repo := setup(t)
	testutil.CreateEnrollment(t, repo, patientID, program.ProgramCulpaID, time.Now().UTC())

	t.Run("first write applies defaults", func(t *testing.T) {
		wp, err := svc.UpsertProgress(ctx, patientID, enrollment.ProgressUpdate{
			WeekNumber:      1,
			InitialTestDone: boolPtr(true),
		})
		if err != nil {
			t.Fatalf("UpsertProgress() failed: %v", err)
		}
		if wp.IsLocked {
			t.Error("first write left the week locked")
		}
		if !wp.InitialTestDone {
			t.Error("initial_test_done not set")
		}
		if wp.IsCompleted || wp.GuideCompleted || wp.MeetingAttended || wp.AudioListenedCount != 0 {
			t.Errorf("unexpected defaults: %+v", wp)
		}
	})

	t.Run("later writes merge only provided fields", func(t *testing.T) {
		wp, err := svc.UpsertProgress(ctx, patientID, enrollment.ProgressUpdate{
			WeekNumber:         1,
			AudioListenedCount: intPtr(3),
		})
		if err != nil {
			t.Fatalf("UpsertProgress() failed: %v", err)
		}
		if wp.AudioListenedCount != 3 {
			t.Errorf("audio_listened_count = %d, want 3", wp.AudioListenedCount)
		}
		if !wp.InitialTestDone {
			t.Error("merge dropped initial_test_done")
		}
	})

	t.Run("week out of range", func(t *testing.T) {
		_, err := svc.UpsertProgress(ctx, patientID, enrollment.ProgressUpdate{WeekNumber: 5})
		vErr, ok := errors.Cause(err).(*core.ValidationError)
		if !ok {
			t.Fatalf("UpsertProgress() error = %v, want *core.ValidationError", err)
		}
		if vErr.Err != enrollment.ErrWeekOutOfRange {
			t.Errorf("UpsertProgress() cause = %v, want ErrWeekOutOfRange", vErr.Err)
		}
	})

	t.Run("embedded test results are appended", func(t *testing.T) {
		scores := program.Scores{SelfJudgment: 18, MaladaptiveGuilt: 12, ConsciousResponsibility: 21, ErrorHumanization: 6}
		if _, err := svc.UpsertProgress(ctx, patientID, enrollment.ProgressUpdate{
			WeekNumber:  2,
			TestResults: &scores,
		}); err != nil {
			t.Fatalf("UpsertProgress() failed: %v", err)
		}
		results, err := svc.QueryTestResults(ctx, patientID)
		if err != nil {
			t.Fatalf("QueryTestResults() failed: %v", err)
		}
		if len(results) != 1 || results[0].Scores != scores {
			t.Errorf("QueryTestResults() = %+v, want 1 result with %+v", results, scores)
		}
	})

	t.Run("invalid scores keep the progress write", func(t *testing.T) {
		bad := program.Scores{SelfJudgment: 99}
		_, err := svc.UpsertProgress(ctx, patientID, enrollment.ProgressUpdate{
			WeekNumber:     3,
			GuideCompleted: boolPtr(true),
			TestResults:    &bad,
		})
		if err == nil {
			t.Fatal("UpsertProgress() expected a scale mismatch error")
		}
		wp, err := svc.GetProgress(ctx, patientID, 3)
		if err != nil {
			t.Fatalf("GetProgress() failed: %v", err)
		}
		if !wp.GuideCompleted {
			t.Error("progress write was lost on score rejection")
		}
		results, _ := svc.QueryTestResults(ctx, patientID)
		if len(results) != 1 {
			t.Errorf("invalid scores were persisted: %d results", len(results))
		}
	})
}

func TestService_RecordTestResult(t *testing.T) {
	svc, _ := setup(t)

	okScores := program.Scores{SelfJudgment: 18, MaladaptiveGuilt: 12, ConsciousResponsibility: 21, ErrorHumanization: 6}

	tests := []struct {
		name    string
		week    int
		scores  program.Scores
		wantErr bool
	}{
		{name: "week too low", week: 0, scores: okScores, wantErr: true},
		{name: "week too high", week: 5, scores: okScores, wantErr: true},
		{name: "scale mismatch", week: 1, scores: program.Scores{SelfJudgment: 40}, wantErr: true},
		{name: "ok", week: 1, scores: okScores},
		{name: "repeat weeks append", week: 1, scores: okScores},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.RecordTestResult(ctx, patientID, tt.week, tt.scores)
			if (err != nil) != tt.wantErr {
				t.Errorf("RecordTestResult() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	results, err := svc.QueryTestResults(ctx, patientID)
	if err != nil {
		t.Fatalf("QueryTestResults() failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("QueryTestResults() = %d results, want 2", len(results))
	}
}

func TestService_Dashboard(t *testing.T) {
	svc, repo := setup(t)

	t.Run("no active enrollment", func(t *testing.T) {
		if _, err := svc.Dashboard(ctx, patientID, time.Now().UTC()); errors.Cause(err) != enrollment.ErrNotFound {
			t.Fatalf("Dashboard() error = %v, want ErrNotFound", err)
		}
	})

	start := testutil.Date(2024, time.March, 4)
	now := start.AddDate(0, 0, 8) // week 2
	testutil.CreateEnrollment(t, repo, patientID, program.ProgramCulpaID, start)

	scores := program.Scores{SelfJudgment: 18, MaladaptiveGuilt: 12, ConsciousResponsibility: 21, ErrorHumanization: 6}
	if err := svc.RecordTestResult(ctx, patientID, 1, scores); err != nil {
		t.Fatalf("RecordTestResult() failed: %v", err)
	}
	if _, err := svc.UpsertProgress(ctx, patientID, enrollment.ProgressUpdate{WeekNumber: 1, IsCompleted: boolPtr(true)}); err != nil {
		t.Fatalf("UpsertProgress() failed: %v", err)
	}

	dash, err := svc.Dashboard(ctx, patientID, now)
	if err != nil {
		t.Fatalf("Dashboard() failed: %v", err)
	}
	if dash.CurrentWeek != 2 {
		t.Errorf("CurrentWeek = %d, want 2", dash.CurrentWeek)
	}
	if dash.Program.ID != program.ProgramCulpaID {
		t.Errorf("Program.ID = %s, want %s", dash.Program.ID, program.ProgramCulpaID)
	}
	if len(dash.Progress) != 1 {
		t.Errorf("Progress = %d records, want 1", len(dash.Progress))
	}
	if dash.LatestScores == nil || *dash.LatestScores != scores {
		t.Errorf("LatestScores = %+v, want %+v", dash.LatestScores, scores)
	}
	for _, sess := range dash.Sessions {
		if sess.Order > 2 && sess.Resources != nil {
			t.Errorf("week %d: locked week leaked resources", sess.Order)
		}
	}
}
