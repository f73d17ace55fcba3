package appointment

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/equilibrar/core"
	"github.com/trezcool/equilibrar/core/user"
)

type Repository interface {
	CreateAppointment(ctx context.Context, appt Appointment) error
	GetAppointmentByID(ctx context.Context, id string) (Appointment, error)
	QueryAppointmentsByPatient(ctx context.Context, patientID string) ([]Appointment, error)
	QueryAppointmentsByProfessional(ctx context.Context, professionalID string) ([]Appointment, error)
	QueryUpcomingAppointments(ctx context.Context, from, to time.Time) ([]Appointment, error)
	UpdateAttendance(ctx context.Context, id string, attended bool, notes string, updatedAt time.Time) (Appointment, error)
	MarkReminderSent(ctx context.Context, id string, at time.Time) error
}

type Service struct {
	repo    Repository
	usrSvc  *user.Service
	mailSvc core.EmailService
}

func NewService(repo Repository, usrSvc *user.Service, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, usrSvc: usrSvc, mailSvc: mailSvc}
}

// Schedule books an appointment and emails the patient a confirmation.
func (svc *Service) Schedule(ctx context.Context, na NewAppointment) (Appointment, error) {
	if err := na.Validate(); err != nil {
		return Appointment{}, err
	}
	patient, err := svc.usrSvc.GetByID(ctx, na.PatientID)
	if err != nil {
		return Appointment{}, errors.Wrapf(err, "patient %s", na.PatientID)
	}
	professional, err := svc.usrSvc.GetByID(ctx, na.ProfessionalID)
	if err != nil {
		return Appointment{}, errors.Wrapf(err, "professional %s", na.ProfessionalID)
	}
	appt := na.appointment(time.Now().UTC())
	if err := svc.repo.CreateAppointment(ctx, appt); err != nil {
		return Appointment{}, errors.Wrap(err, "creating appointment")
	}
	svc.sendConfirmationMail(appt, patient, professional)
	return appt, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	return svc.repo.GetAppointmentByID(ctx, id)
}

func (svc *Service) QueryByPatient(ctx context.Context, patientID string) ([]Appointment, error) {
	return svc.repo.QueryAppointmentsByPatient(ctx, patientID)
}

func (svc *Service) QueryByProfessional(ctx context.Context, professionalID string) ([]Appointment, error) {
	return svc.repo.QueryAppointmentsByProfessional(ctx, professionalID)
}

func (svc *Service) RecordAttendance(ctx context.Context, id string, au AttendanceUpdate) (Appointment, error) {
	if _, err := svc.repo.GetAppointmentByID(ctx, id); err != nil {
		return Appointment{}, err
	}
	return svc.repo.UpdateAttendance(ctx, id, au.Attended, au.Notes, time.Now().UTC())
}

// Upcoming lists appointments scheduled within the window starting at now.
// The reminder job uses this to send patients a heads-up email.
func (svc *Service) Upcoming(ctx context.Context, now time.Time, window time.Duration) ([]Appointment, error) {
	return svc.repo.QueryUpcomingAppointments(ctx, now, now.Add(window))
}

// SendReminders emails every patient with an appointment inside the window
// that has not been reminded yet. It returns the number of reminders sent.
func (svc *Service) SendReminders(ctx context.Context, now time.Time, window time.Duration) (int, error) {
	appts, err := svc.Upcoming(ctx, now, window)
	if err != nil {
		return 0, err
	}
	var sent int
	for _, appt := range appts {
		if !appt.ReminderSentAt.IsZero() {
			continue
		}
		patient, err := svc.usrSvc.GetByID(ctx, appt.PatientID)
		if err != nil {
			continue
		}
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Name: patient.Name, Address: patient.Email}},
			Subject:      "Recordatorio de cita",
			TemplateName: "appointment_reminder",
			TemplateData: reminderData(appt, patient),
		})
		if err := svc.repo.MarkReminderSent(ctx, appt.ID, now); err != nil {
			return sent, errors.Wrap(err, "marking reminder sent")
		}
		sent++
	}
	return sent, nil
}

type apptMailData struct {
	Name        string
	ScheduledAt string
	Modality    string
	Link        string
	With        string
}

func (svc *Service) sendConfirmationMail(appt Appointment, patient, professional user.User) {
	if patient.Email == "" || svc.mailSvc == nil {
		return
	}
	data := reminderData(appt, patient)
	data.With = professional.Name
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: patient.Name, Address: patient.Email}},
		Subject:      "Confirmación de cita",
		TemplateName: "appointment_confirmation",
		TemplateData: data,
	})
}

func reminderData(appt Appointment, patient user.User) apptMailData {
	return apptMailData{
		Name:        patient.Name,
		ScheduledAt: appt.ScheduledAt.Format("02-01-2006 15:04"),
		Modality:    appt.Modality,
		Link:        appt.Link,
	}
}
