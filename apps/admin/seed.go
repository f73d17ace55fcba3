package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/equilibrar/core/appointment"
	"github.com/trezcool/equilibrar/core/enrollment"
	"github.com/trezcool/equilibrar/core/program"
	"github.com/trezcool/equilibrar/core/user"
)

const (
	seedPassword = "Equilibrar2024!"
	meetLink     = "https://meet.google.com/equ-ilib-rar"
)

type seedPatient struct {
	name      string
	email     string
	programID string
	week      int // current program week
	profile   user.Profile
}

var seedStaff = []user.User{
	{Name: "Benito Olmos", Email: "admin@equilibrar.cl", Role: user.RoleAdmin},
	{Name: "Sol Elgueta", Email: "coord@equilibrar.cl", Role: user.RoleCoordinator},
	{
		Name:  "Claudio Reyes",
		Email: "prof@equilibrar.cl",
		Role:  user.RoleProfessional,
		ProgramIDs: []string{
			program.ProgramCulpaID,
			program.ProgramAngustiaID,
			program.ProgramIrritabilidadID,
		},
	},
}

var seedPatients = []seedPatient{
	{
		name: "Lucía Fernández Soto", email: "lucia.fernandez@example.cl",
		programID: program.ProgramCulpaID, week: 1,
		profile: user.Profile{DocumentID: "16.482.913-5", Phone: "+56 9 5214 7788", Isapre: "Banmédica", Insurance: "MetLife Complementario", Address: "Av. Providencia 1208, Providencia"},
	},
	{
		name: "Carlos Díaz Muñoz", email: "carlos.diaz@example.cl",
		programID: program.ProgramCulpaID, week: 2,
		profile: user.Profile{DocumentID: "14.902.337-K", Phone: "+56 9 8841 2039", Isapre: "Colmena", Address: "Los Leones 445, Providencia"},
	},
	{
		name: "María Torres Vidal", email: "maria.torres@example.cl",
		programID: program.ProgramCulpaID, week: 3,
		profile: user.Profile{DocumentID: "17.118.204-8", Phone: "+56 9 3302 8815", Isapre: "Consalud", Insurance: "Vida Cámara", Address: "Irarrázaval 2821, Ñuñoa"},
	},
	{
		name: "Jorge Castro Pinto", email: "jorge.castro@example.cl",
		programID: program.ProgramCulpaID, week: 4,
		profile: user.Profile{DocumentID: "12.775.640-2", Phone: "+56 9 7455 1920", Isapre: "Fonasa", Address: "San Diego 1550, Santiago Centro"},
	},
	{
		name: "Valentina Rojas Lagos", email: "valentina.rojas@example.cl",
		programID: program.ProgramAngustiaID, week: 1,
		profile: user.Profile{DocumentID: "18.330.172-4", Phone: "+56 9 6120 4483", Isapre: "Cruz Blanca", Address: "Av. Apoquindo 6410, Las Condes"},
	},
	{
		name: "Andrés Vergara Cruz", email: "andres.vergara@example.cl",
		programID: program.ProgramAngustiaID, week: 2,
		profile: user.Profile{DocumentID: "15.649.018-7", Phone: "+56 9 9013 7261", Isapre: "Banmédica", Insurance: "BICE Vida", Address: "Vicuña Mackenna 880, Santiago"},
	},
	{
		name: "Camila Núñez Bravo", email: "camila.nunez@example.cl",
		programID: program.ProgramAngustiaID, week: 3,
		profile: user.Profile{DocumentID: "19.204.556-1", Phone: "+56 9 4417 0952", Isapre: "Fonasa", Address: "Gran Avenida 5233, San Miguel"},
	},
	{
		name: "Felipe Araya Donoso", email: "felipe.araya@example.cl",
		programID: program.ProgramAngustiaID, week: 4,
		profile: user.Profile{DocumentID: "13.887.201-9", Phone: "+56 9 2238 6107", Isapre: "Colmena", Insurance: "Consorcio", Address: "Av. Macul 3011, Macul"},
	},
	{
		name: "Daniela Fuentes Paz", email: "daniela.fuentes@example.cl",
		programID: program.ProgramIrritabilidadID, week: 1,
		profile: user.Profile{DocumentID: "17.956.830-3", Phone: "+56 9 8604 3375", Isapre: "Consalud", Address: "Av. Pajaritos 2700, Maipú"},
	},
	{
		name: "Rodrigo Salas Mora", email: "rodrigo.salas@example.cl",
		programID: program.ProgramIrritabilidadID, week: 2,
		profile: user.Profile{DocumentID: "14.201.984-6", Phone: "+56 9 5590 2218", Isapre: "Cruz Blanca", Insurance: "Zurich Complementario", Address: "Recoleta 1190, Recoleta"},
	},
	{
		name: "Antonia Herrera León", email: "antonia.herrera@example.cl",
		programID: program.ProgramIrritabilidadID, week: 3,
		profile: user.Profile{DocumentID: "18.772.405-0", Phone: "+56 9 7819 6644", Isapre: "Fonasa", Address: "Av. Independencia 2045, Independencia"},
	},
	{
		name: "Matías Godoy Silva", email: "matias.godoy@example.cl",
		programID: program.ProgramIrritabilidadID, week: 4,
		profile: user.Profile{DocumentID: "16.038.719-2", Phone: "+56 9 3345 9081", Isapre: "Banmédica", Address: "Av. Tobalaba 9870, La Florida"},
	},
}

// seed loads a demo dataset: staff accounts, twelve patients spread across
// the three tracks at weeks 1 to 4, their progress, test result history and
// intake/closure appointments. Accounts that already exist are skipped.
func (cli *commandLine) seed() error {
	ctx := context.Background()
	now := time.Now().UTC()

	for _, staff := range seedStaff {
		if _, err := cli.seedUser(ctx, staff, now); err != nil {
			return err
		}
	}

	prof, err := cli.usrRepo.GetUserByEmail(ctx, "prof@equilibrar.cl")
	if err != nil {
		return err
	}

	for _, sp := range seedPatients {
		if err := cli.seedPatient(ctx, sp, prof.ID, now); err != nil {
			return err
		}
	}

	fmt.Printf("seeded %d staff and %d patients\n", len(seedStaff), len(seedPatients))
	return nil
}

func (cli *commandLine) seedUser(ctx context.Context, usr user.User, now time.Time) (user.User, error) {
	existing, err := cli.usrRepo.GetUserByEmail(ctx, usr.Email)
	if err == nil {
		return existing, nil
	}
	if err != user.ErrNotFound {
		return user.User{}, err
	}
	usr.IsActive = true
	usr.CreatedAt = now
	usr.UpdatedAt = now
	if err := usr.SetPassword(seedPassword); err != nil {
		return user.User{}, err
	}
	return cli.usrRepo.CreateUser(ctx, usr)
}

func (cli *commandLine) seedPatient(ctx context.Context, sp seedPatient, profID string, now time.Time) error {
	usr, err := cli.seedUser(ctx, user.User{Name: sp.name, Email: sp.email, Role: user.RoleClient}, now)
	if err != nil {
		return err
	}

	prof := sp.profile
	prof.UserID = usr.ID
	if _, err := cli.usrRepo.UpsertProfile(ctx, prof); err != nil {
		return err
	}

	if _, err := cli.enrRepo.GetActiveEnrollment(ctx, usr.ID); err == nil {
		return nil // already seeded
	} else if err != enrollment.ErrNotFound {
		return err
	}

	// a start (week-1)*7 days back puts the enrollment on the wanted week
	start := now.AddDate(0, 0, -(sp.week-1)*7)
	enr := enrollment.Enrollment{
		ID:        seedID(sp.slug()),
		PatientID: usr.ID,
		ProgramID: sp.programID,
		StartDate: start,
		Status:    enrollment.StatusActive,
		CreatedAt: start,
		UpdatedAt: start,
	}
	if err := cli.enrRepo.CreateEnrollment(ctx, enr); err != nil {
		return err
	}

	if err := cli.seedProgress(ctx, usr.ID, sp, start); err != nil {
		return err
	}
	return cli.seedAppointments(ctx, usr.ID, profID, sp, start, now)
}

func (sp seedPatient) slug() string {
	return fmt.Sprintf("enr-%s-w%d", sp.programID, sp.week)
}

// seedID derives a stable UUID from a slug; the primary key columns are typed
// uuid, so reruns regenerate the same IDs without storing the slug itself.
func seedID(slug string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(slug)).String()
}

func (cli *commandLine) seedProgress(ctx context.Context, patientID string, sp seedPatient, start time.Time) error {
	done, notDone := true, false
	for week := 1; week <= sp.week; week++ {
		completed := week < sp.week
		audios := 7
		if !completed {
			audios = 2
		}
		up := enrollment.ProgressUpdate{
			WeekNumber:         week,
			IsCompleted:        &completed,
			InitialTestDone:    &done,
			GuideCompleted:     &completed,
			AudioListenedCount: &audios,
			MeetingAttended:    &notDone,
		}
		if week == 1 {
			up.MeetingAttended = &done
		}
		at := start.AddDate(0, 0, (week-1)*7+1)
		if _, err := cli.enrRepo.UpsertProgress(ctx, patientID, up, at); err != nil {
			return err
		}
		if err := cli.enrRepo.InsertTestResult(ctx, enrollment.TestResult{
			ID:        seedID(fmt.Sprintf("%s-test-w%d", sp.slug(), week)),
			PatientID: patientID,
			Week:      week,
			Date:      at,
			Scores:    seedScores(week),
		}); err != nil {
			return err
		}
	}
	return nil
}

// seedScores yields a plausible improvement trend: judgment and guilt ease
// off while responsibility and humanization climb, all within scale bounds.
func seedScores(week int) program.Scores {
	return program.Scores{
		SelfJudgment:            26 - 4*week,
		MaladaptiveGuilt:        22 - 3*week,
		ConsciousResponsibility: 12 + 4*week,
		ErrorHumanization:       2 + 2*week,
	}
}

func (cli *commandLine) seedAppointments(ctx context.Context, patientID, profID string, sp seedPatient, start, now time.Time) error {
	attended := true
	intake := appointment.Appointment{
		ID:             seedID(sp.slug() + "-intake"),
		PatientID:      patientID,
		ProfessionalID: profID,
		ScheduledAt:    start.AddDate(0, 0, 2),
		Modality:       appointment.ModalityTeleconsulta,
		Link:           meetLink,
		Notes:          "Entrevista de ingreso",
		CreatedAt:      start,
		UpdatedAt:      start,
	}
	if intake.ScheduledAt.Before(now) {
		intake.Attended = &attended
	}
	if err := cli.apptRepo.CreateAppointment(ctx, intake); err != nil {
		return err
	}

	if sp.week < program.ProgramWeeks {
		return nil
	}
	closure := appointment.Appointment{
		ID:             seedID(sp.slug() + "-closure"),
		PatientID:      patientID,
		ProfessionalID: profID,
		ScheduledAt:    now.AddDate(0, 0, 2),
		Modality:       appointment.ModalityPresencial,
		Notes:          "Sesión de cierre",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return cli.apptRepo.CreateAppointment(ctx, closure)
}
