package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/equilibrar/core/enrollment"
)

type enrollmentRepository struct {
	db *enrollmentTable
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *DB) enrollment.Repository {
	return &enrollmentRepository{db: db.enrollment}
}

func (repo *enrollmentRepository) CreateEnrollment(_ context.Context, enr enrollment.Enrollment) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, e := range repo.db.table {
		if e.PatientID == enr.PatientID && e.Status == enrollment.StatusActive &&
			enr.Status == enrollment.StatusActive {
			return enrollment.ErrAlreadyEnrolled
		}
	}
	repo.db.table[enr.ID] = &enr
	return nil
}

func (repo *enrollmentRepository) GetEnrollmentByID(_ context.Context, id string) (enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if enr, ok := repo.db.table[id]; ok {
		return *enr, nil
	}
	return enrollment.Enrollment{}, enrollment.ErrNotFound
}

func (repo *enrollmentRepository) GetActiveEnrollment(_ context.Context, patientID string) (enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, enr := range repo.db.table {
		if enr.PatientID == patientID && enr.Status == enrollment.StatusActive {
			return *enr, nil
		}
	}
	return enrollment.Enrollment{}, enrollment.ErrNotFound
}

func (repo *enrollmentRepository) QueryEnrollmentsByPatient(_ context.Context, patientID string) ([]enrollment.Enrollment, error) {
	return repo.filter(func(e enrollment.Enrollment) bool { return e.PatientID == patientID })
}

func (repo *enrollmentRepository) QueryEnrollmentsByProgram(_ context.Context, programID string) ([]enrollment.Enrollment, error) {
	return repo.filter(func(e enrollment.Enrollment) bool { return e.ProgramID == programID })
}

func (repo *enrollmentRepository) filter(keep func(enrollment.Enrollment) bool) ([]enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	enrs := make([]enrollment.Enrollment, 0)
	for _, enr := range repo.db.table {
		if keep(*enr) {
			enrs = append(enrs, *enr)
		}
	}
	sort.Slice(enrs, func(i, j int) bool { return enrs[i].StartDate.Before(enrs[j].StartDate) })
	return enrs, nil
}

func (repo *enrollmentRepository) UpdateEnrollmentStatus(_ context.Context, id, status string, updatedAt time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	enr, ok := repo.db.table[id]
	if !ok {
		return enrollment.ErrNotFound
	}
	enr.Status = status
	enr.UpdatedAt = updatedAt
	return nil
}

func (repo *enrollmentRepository) GetProgress(_ context.Context, patientID string, week int) (enrollment.WeekProgress, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if wp, ok := repo.db.progress[patientID][week]; ok {
		return *wp, nil
	}
	return enrollment.WeekProgress{}, enrollment.ErrNotFound
}

func (repo *enrollmentRepository) QueryProgressByPatient(_ context.Context, patientID string) ([]enrollment.WeekProgress, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]enrollment.WeekProgress, 0, len(repo.db.progress[patientID]))
	for _, wp := range repo.db.progress[patientID] {
		recs = append(recs, *wp)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].WeekNumber < recs[j].WeekNumber })
	return recs, nil
}

func (repo *enrollmentRepository) UpsertProgress(_ context.Context, patientID string, up enrollment.ProgressUpdate, now time.Time) (enrollment.WeekProgress, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	weeks, ok := repo.db.progress[patientID]
	if !ok {
		weeks = make(map[int]*enrollment.WeekProgress)
		repo.db.progress[patientID] = weeks
	}
	wp, ok := weeks[up.WeekNumber]
	if !ok {
		wp = &enrollment.WeekProgress{PatientID: patientID, WeekNumber: up.WeekNumber}
		weeks[up.WeekNumber] = wp
	}

	wp.IsLocked = false
	if up.IsCompleted != nil {
		wp.IsCompleted = *up.IsCompleted
	}
	if up.InitialTestDone != nil {
		wp.InitialTestDone = *up.InitialTestDone
	}
	if up.GuideCompleted != nil {
		wp.GuideCompleted = *up.GuideCompleted
	}
	if up.AudioListenedCount != nil {
		wp.AudioListenedCount = *up.AudioListenedCount
	}
	if up.MeetingAttended != nil {
		wp.MeetingAttended = *up.MeetingAttended
	}
	wp.UpdatedAt = now
	return *wp, nil
}

func (repo *enrollmentRepository) InsertTestResult(_ context.Context, res enrollment.TestResult) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.results = append(repo.db.results, res)
	return nil
}

func (repo *enrollmentRepository) QueryTestResults(_ context.Context, patientID string) ([]enrollment.TestResult, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	results := make([]enrollment.TestResult, 0)
	for _, res := range repo.db.results {
		if res.PatientID == patientID {
			results = append(results, res)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Date.Before(results[j].Date) })
	return results, nil
}

func (repo *enrollmentRepository) LatestTestResult(ctx context.Context, patientID string) (enrollment.TestResult, error) {
	results, _ := repo.QueryTestResults(ctx, patientID)
	if len(results) == 0 {
		return enrollment.TestResult{}, enrollment.ErrNotFound
	}
	return results[len(results)-1], nil
}
