package appointment

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/equilibrar/core"
)

var (
	ErrNotFound     = errors.New("appointment not found")
	ErrLinkRequired = errors.New("a meeting link is required for teleconsultations")
)

// Appointment modalities.
const (
	ModalityTeleconsulta = "Teleconsulta"
	ModalityPresencial   = "Presencial"
)

// Appointment is a scheduled session between a patient and a professional.
// Attended stays nil until attendance is recorded.
type Appointment struct {
	ID             string    `json:"id"`
	PatientID      string    `json:"patient_id"`
	ProfessionalID string    `json:"professional_id"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	Modality       string    `json:"modality"`
	Link           string    `json:"link,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Attended       *bool     `json:"attended,omitempty"`
	ReminderSentAt time.Time `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type NewAppointment struct {
	PatientID      string    `json:"patient_id" validate:"required,uuid4"`
	ProfessionalID string    `json:"professional_id" validate:"required,uuid4"`
	ScheduledAt    time.Time `json:"scheduled_at" validate:"required"`
	Modality       string    `json:"modality" validate:"required,modality"`
	Link           string    `json:"link" validate:"omitempty,url"`
	Notes          string    `json:"notes"`
}

func (na NewAppointment) Validate() error {
	na.PatientID = core.CleanString(na.PatientID, true)
	na.ProfessionalID = core.CleanString(na.ProfessionalID, true)
	na.Link = core.CleanString(na.Link)
	if err := core.Validate.Struct(na); err != nil {
		return err
	}
	if na.Modality == ModalityTeleconsulta && na.Link == "" {
		return core.NewValidationError(ErrLinkRequired,
			core.FieldError{Field: "link", Error: "a meeting link is required for teleconsultations"})
	}
	return nil
}

func (na NewAppointment) appointment(now time.Time) Appointment {
	return Appointment{
		ID:             uuid.New().String(),
		PatientID:      na.PatientID,
		ProfessionalID: na.ProfessionalID,
		ScheduledAt:    na.ScheduledAt,
		Modality:       na.Modality,
		Link:           na.Link,
		Notes:          na.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

type AttendanceUpdate struct {
	Attended bool   `json:"attended"`
	Notes    string `json:"notes"`
}
