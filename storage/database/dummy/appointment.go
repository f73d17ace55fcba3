package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/equilibrar/core/appointment"
)

type appointmentRepository struct {
	db *appointmentTable
}

var _ appointment.Repository = (*appointmentRepository)(nil) // interface compliance check

func NewAppointmentRepository(db *DB) appointment.Repository {
	return &appointmentRepository{db: db.appointment}
}

func (repo *appointmentRepository) CreateAppointment(_ context.Context, appt appointment.Appointment) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[appt.ID] = &appt
	return nil
}

func (repo *appointmentRepository) GetAppointmentByID(_ context.Context, id string) (appointment.Appointment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if appt, ok := repo.db.table[id]; ok {
		return *appt, nil
	}
	return appointment.Appointment{}, appointment.ErrNotFound
}

func (repo *appointmentRepository) QueryAppointmentsByPatient(_ context.Context, patientID string) ([]appointment.Appointment, error) {
	return repo.filter(func(a appointment.Appointment) bool { return a.PatientID == patientID })
}

func (repo *appointmentRepository) QueryAppointmentsByProfessional(_ context.Context, professionalID string) ([]appointment.Appointment, error) {
	return repo.filter(func(a appointment.Appointment) bool { return a.ProfessionalID == professionalID })
}

func (repo *appointmentRepository) QueryUpcomingAppointments(_ context.Context, from, to time.Time) ([]appointment.Appointment, error) {
	return repo.filter(func(a appointment.Appointment) bool {
		return !a.ScheduledAt.Before(from) && a.ScheduledAt.Before(to)
	})
}

func (repo *appointmentRepository) filter(keep func(appointment.Appointment) bool) ([]appointment.Appointment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	appts := make([]appointment.Appointment, 0)
	for _, appt := range repo.db.table {
		if keep(*appt) {
			appts = append(appts, *appt)
		}
	}
	sort.Slice(appts, func(i, j int) bool { return appts[i].ScheduledAt.Before(appts[j].ScheduledAt) })
	return appts, nil
}

func (repo *appointmentRepository) UpdateAttendance(_ context.Context, id string, attended bool, notes string, updatedAt time.Time) (appointment.Appointment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	appt, ok := repo.db.table[id]
	if !ok {
		return appointment.Appointment{}, appointment.ErrNotFound
	}
	appt.Attended = &attended
	if notes != "" {
		appt.Notes = notes
	}
	appt.UpdatedAt = updatedAt
	return *appt, nil
}

func (repo *appointmentRepository) MarkReminderSent(_ context.Context, id string, at time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	appt, ok := repo.db.table[id]
	if !ok {
		return appointment.ErrNotFound
	}
	appt.ReminderSentAt = at
	return nil
}
