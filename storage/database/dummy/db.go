package dummydb

import (
	"sync"

	"github.com/trezcool/equilibrar/core/appointment"
	"github.com/trezcool/equilibrar/core/enrollment"
	"github.com/trezcool/equilibrar/core/user"
)

type (
	DB struct {
		user        *userTable
		enrollment  *enrollmentTable
		appointment *appointmentTable
	}

	userTable struct {
		sync.RWMutex
		table    map[string]*user.User
		profiles map[string]*user.Profile
	}

	enrollmentTable struct {
		sync.RWMutex
		table    map[string]*enrollment.Enrollment
		progress map[string]map[int]*enrollment.WeekProgress // patientID -> week
		results  []enrollment.TestResult
	}

	appointmentTable struct {
		sync.RWMutex
		table map[string]*appointment.Appointment
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{
			table:    make(map[string]*user.User),
			profiles: make(map[string]*user.Profile),
		},
		enrollment: &enrollmentTable{
			table:    make(map[string]*enrollment.Enrollment),
			progress: make(map[string]map[int]*enrollment.WeekProgress),
		},
		appointment: &appointmentTable{table: make(map[string]*appointment.Appointment)},
	}
	return db, nil
}
