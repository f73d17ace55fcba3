package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/equilibrar/core/enrollment"
	"github.com/trezcool/equilibrar/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd, role string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateEnrollment(
	t *testing.T,
	repo enrollment.Repository,
	patientID, programID string,
	startDate time.Time,
	status ...string,
) enrollment.Enrollment {
	t.Helper()

	st := enrollment.StatusActive
	if len(status) > 0 {
		st = status[0]
	}
	enr := enrollment.Enrollment{
		ID:        patientID + "-" + programID,
		PatientID: patientID,
		ProgramID: programID,
		StartDate: startDate,
		Status:    st,
		CreatedAt: startDate,
		UpdatedAt: startDate,
	}
	if err := repo.CreateEnrollment(context.Background(), enr); err != nil {
		t.Fatalf("CreateEnrollment() failed: %v", err)
	}
	return enr
}

// Date is a shorthand for a UTC date at midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
