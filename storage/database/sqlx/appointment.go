package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/equilibrar/core/appointment"
)

type appointmentRepository struct {
	db *sqlx.DB
}

var _ appointment.Repository = (*appointmentRepository)(nil) // interface compliance check

func NewAppointmentRepository(db *sqlx.DB) appointment.Repository {
	return &appointmentRepository{db: db}
}

type appointmentRow struct {
	ID             string    `db:"id"`
	PatientID      string    `db:"patient_id"`
	ProfessionalID string    `db:"professional_id"`
	ScheduledAt    time.Time `db:"scheduled_at"`
	Modality       string    `db:"modality"`
	Link           string    `db:"link"`
	Notes          string    `db:"notes"`
	Attended       null.Bool `db:"attended"`
	ReminderSentAt null.Time `db:"reminder_sent_at"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r appointmentRow) appointment() appointment.Appointment {
	return appointment.Appointment{
		ID:             r.ID,
		PatientID:      r.PatientID,
		ProfessionalID: r.ProfessionalID,
		ScheduledAt:    r.ScheduledAt,
		Modality:       r.Modality,
		Link:           r.Link,
		Notes:          r.Notes,
		Attended:       r.Attended.Ptr(),
		ReminderSentAt: r.ReminderSentAt.Time,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func rowsToAppointments(rows []appointmentRow) []appointment.Appointment {
	appts := make([]appointment.Appointment, 0, len(rows))
	for _, r := range rows {
		appts = append(appts, r.appointment())
	}
	return appts
}

const appointmentCols = "id, patient_id, professional_id, scheduled_at, modality, link, notes, attended, reminder_sent_at, created_at, updated_at"

func (repo *appointmentRepository) CreateAppointment(ctx context.Context, appt appointment.Appointment) error {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO appointments (id, patient_id, professional_id, scheduled_at, modality, link, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		appt.ID, appt.PatientID, appt.ProfessionalID, appt.ScheduledAt,
		appt.Modality, appt.Link, appt.Notes, appt.CreatedAt, appt.UpdatedAt)
	return errors.Wrap(err, "inserting appointment")
}

func (repo *appointmentRepository) GetAppointmentByID(ctx context.Context, id string) (appointment.Appointment, error) {
	var row appointmentRow
	err := repo.db.GetContext(ctx, &row, "SELECT "+appointmentCols+" FROM appointments WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return appointment.Appointment{}, appointment.ErrNotFound
	} else if err != nil {
		return appointment.Appointment{}, errors.Wrap(err, "getting appointment")
	}
	return row.appointment(), nil
}

func (repo *appointmentRepository) QueryAppointmentsByPatient(ctx context.Context, patientID string) ([]appointment.Appointment, error) {
	return repo.query(ctx, "patient_id", patientID)
}

func (repo *appointmentRepository) QueryAppointmentsByProfessional(ctx context.Context, professionalID string) ([]appointment.Appointment, error) {
	return repo.query(ctx, "professional_id", professionalID)
}

func (repo *appointmentRepository) query(ctx context.Context, col, val string) ([]appointment.Appointment, error) {
	var rows []appointmentRow
	q := "SELECT " + appointmentCols + " FROM appointments WHERE " + col + " = $1 ORDER BY scheduled_at"
	if err := repo.db.SelectContext(ctx, &rows, q, val); err != nil {
		return nil, errors.Wrap(err, "querying appointments")
	}
	return rowsToAppointments(rows), nil
}

func (repo *appointmentRepository) QueryUpcomingAppointments(ctx context.Context, from, to time.Time) ([]appointment.Appointment, error) {
	var rows []appointmentRow
	err := repo.db.SelectContext(ctx, &rows,
		"SELECT "+appointmentCols+" FROM appointments WHERE scheduled_at >= $1 AND scheduled_at < $2 ORDER BY scheduled_at",
		from, to)
	if err != nil {
		return nil, errors.Wrap(err, "querying upcoming appointments")
	}
	return rowsToAppointments(rows), nil
}

func (repo *appointmentRepository) UpdateAttendance(ctx context.Context, id string, attended bool, notes string, updatedAt time.Time) (appointment.Appointment, error) {
	var row appointmentRow
	err := repo.db.GetContext(ctx, &row, `
		UPDATE appointments
		SET attended = $2, notes = CASE WHEN $3 = '' THEN notes ELSE $3 END, updated_at = $4
		WHERE id = $1
		RETURNING `+appointmentCols, id, attended, notes, updatedAt)
	if err == sql.ErrNoRows {
		return appointment.Appointment{}, appointment.ErrNotFound
	} else if err != nil {
		return appointment.Appointment{}, errors.Wrap(err, "updating attendance")
	}
	return row.appointment(), nil
}

func (repo *appointmentRepository) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	_, err := repo.db.ExecContext(ctx,
		"UPDATE appointments SET reminder_sent_at = $2 WHERE id = $1", id, at)
	return errors.Wrap(err, "marking reminder sent")
}
