package appointment_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/equilibrar/core"
	"github.com/trezcool/equilibrar/core/appointment"
	"github.com/trezcool/equilibrar/core/user"
	emailsvc "github.com/trezcool/equilibrar/services/email"
	dummydb "github.com/trezcool/equilibrar/storage/database/dummy"
	testutil "github.com/trezcool/equilibrar/tests"
)

var ctx = context.Background()

func setup(t *testing.T) (*appointment.Service, appointment.Repository, user.User, user.User) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	usrRepo := dummydb.NewUserRepository(db)
	repo := dummydb.NewAppointmentRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock()

	patient := testutil.CreateUser(t, usrRepo, "Lucía Fernández", "lucia@test.cl", "", user.RoleClient, true)
	prof := testutil.CreateUser(t, usrRepo, "Claudio Reyes", "claudio@test.cl", "", user.RoleProfessional, true)

	svc := appointment.NewService(repo, user.NewService(usrRepo, mailSvc), mailSvc)
	return svc, repo, patient, prof
}

func TestService_Schedule(t *testing.T) {
	svc, _, patient, prof := setup(t)
	scheduledAt := time.Now().UTC().AddDate(0, 0, 3)

	tests := []struct {
		name    string
		na      appointment.NewAppointment
		wantErr error
	}{
		{
			name: "teleconsultation requires a link",
			na: appointment.NewAppointment{
				PatientID:      patient.ID,
				ProfessionalID: prof.ID,
				ScheduledAt:    scheduledAt,
				Modality:       appointment.ModalityTeleconsulta,
			},
			wantErr: appointment.ErrLinkRequired,
		},
		{
			name: "unknown patient",
			na: appointment.NewAppointment{
				PatientID:      "0e37df36-f698-4171-9f2b-d3010c0cfd92",
				ProfessionalID: prof.ID,
				ScheduledAt:    scheduledAt,
				Modality:       appointment.ModalityPresencial,
			},
			wantErr: user.ErrNotFound,
		},
		{
			name: "teleconsultation with link",
			na: appointment.NewAppointment{
				PatientID:      patient.ID,
				ProfessionalID: prof.ID,
				ScheduledAt:    scheduledAt,
				Modality:       appointment.ModalityTeleconsulta,
				Link:           "https://meet.google.com/abc-defg-hij",
			},
		},
		{
			name: "in-person needs no link",
			na: appointment.NewAppointment{
				PatientID:      patient.ID,
				ProfessionalID: prof.ID,
				ScheduledAt:    scheduledAt,
				Modality:       appointment.ModalityPresencial,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt, err := svc.Schedule(ctx, tt.na)
			if tt.wantErr != nil {
				cause := errors.Cause(err)
				if vErr, ok := cause.(*core.ValidationError); ok {
					cause = vErr.Err
				}
				if cause != tt.wantErr {
					t.Fatalf("Schedule() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Schedule() unexpected error: %v", err)
			}
			if appt.Attended != nil {
				t.Error("Schedule() attendance already set")
			}
		})
	}

	t.Run("invalid modality", func(t *testing.T) {
		_, err := svc.Schedule(ctx, appointment.NewAppointment{
			PatientID:      patient.ID,
			ProfessionalID: prof.ID,
			ScheduledAt:    scheduledAt,
			Modality:       "Telepatía",
		})
		if err == nil {
			t.Fatal("Schedule() expected a validation error")
		}
	})
}

func TestService_RecordAttendance(t *testing.T) {
	svc, _, patient, prof := setup(t)

	appt, err := svc.Schedule(ctx, appointment.NewAppointment{
		PatientID:      patient.ID,
		ProfessionalID: prof.ID,
		ScheduledAt:    time.Now().UTC(),
		Modality:       appointment.ModalityPresencial,
	})
	if err != nil {
		t.Fatalf("Schedule() failed: %v", err)
	}

	if _, err := svc.RecordAttendance(ctx, "nope", appointment.AttendanceUpdate{Attended: true}); errors.Cause(err) != appointment.ErrNotFound {
		t.Errorf("RecordAttendance() error = %v, want ErrNotFound", err)
	}

	updated, err := svc.RecordAttendance(ctx, appt.ID, appointment.AttendanceUpdate{Attended: true, Notes: "llegó puntual"})
	if err != nil {
		t.Fatalf("RecordAttendance() failed: %v", err)
	}
	if updated.Attended == nil || !*updated.Attended {
		t.Error("RecordAttendance() did not set attended")
	}
	if updated.Notes != "llegó puntual" {
		t.Errorf("RecordAttendance() notes = %q", updated.Notes)
	}

	// keep existing notes when none provided
	updated, err = svc.RecordAttendance(ctx, appt.ID, appointment.AttendanceUpdate{Attended: false})
	if err != nil {
		t.Fatalf("RecordAttendance() failed: %v", err)
	}
	if updated.Notes != "llegó puntual" {
		t.Errorf("RecordAttendance() dropped notes: %q", updated.Notes)
	}
	if updated.Attended == nil || *updated.Attended {
		t.Error("RecordAttendance() did not clear attended")
	}
}

func TestService_SendReminders(t *testing.T) {
	svc, repo, patient, prof := setup(t)
	now := time.Now().UTC()
	window := 24 * time.Hour

	schedule := func(at time.Time) appointment.Appointment {
		appt, err := svc.Schedule(ctx, appointment.NewAppointment{
			PatientID:      patient.ID,
			ProfessionalID: prof.ID,
			ScheduledAt:    at,
			Modality:       appointment.ModalityPresencial,
		})
		if err != nil {
			t.Fatalf("Schedule() failed: %v", err)
		}
		return appt
	}
	inWindow := schedule(now.Add(3 * time.Hour))
	schedule(now.Add(48 * time.Hour)) // outside window
	schedule(now.Add(-2 * time.Hour)) // already past

	sent, err := svc.SendReminders(ctx, now, window)
	if err != nil {
		t.Fatalf("SendReminders() failed: %v", err)
	}
	if sent != 1 {
		t.Errorf("SendReminders() sent = %d, want 1", sent)
	}

	appt, err := repo.GetAppointmentByID(ctx, inWindow.ID)
	if err != nil {
		t.Fatalf("GetAppointmentByID() failed: %v", err)
	}
	if appt.ReminderSentAt.IsZero() {
		t.Error("SendReminders() did not mark the reminder sent")
	}

	// a second run does not re-send
	sent, err = svc.SendReminders(ctx, now, window)
	if err != nil {
		t.Fatalf("SendReminders() rerun failed: %v", err)
	}
	if sent != 0 {
		t.Errorf("SendReminders() rerun sent = %d, want 0", sent)
	}
}
