package enrollment

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/equilibrar/core/program"
)

// Dashboard is the aggregate a patient's home screen is built from: the
// active enrollment, its program, the gated week view and the progress and
// latest clinical scores recorded so far.
type Dashboard struct {
	Enrollment   Enrollment             `json:"enrollment"`
	Program      program.Program        `json:"program"`
	CurrentWeek  int                    `json:"current_week"`
	Sessions     []program.GatedSession `json:"sessions"`
	Progress     []WeekProgress         `json:"progress"`
	LatestScores *program.Scores        `json:"latest_scores,omitempty"`
}

func (svc *Service) Dashboard(ctx context.Context, patientID string, now time.Time) (Dashboard, error) {
	enr, err := svc.repo.GetActiveEnrollment(ctx, patientID)
	if err != nil {
		return Dashboard{}, err
	}
	prog, err := svc.programs.GetByID(enr.ProgramID)
	if err != nil {
		return Dashboard{}, err
	}
	week := enr.CurrentWeek(now)
	sessions, err := svc.programs.VisibleSessions(enr.ProgramID, week)
	if err != nil {
		return Dashboard{}, err
	}
	progress, err := svc.repo.QueryProgressByPatient(ctx, patientID)
	if err != nil {
		return Dashboard{}, err
	}
	dash := Dashboard{
		Enrollment:  enr,
		Program:     prog,
		CurrentWeek: week,
		Sessions:    sessions,
		Progress:    progress,
	}
	if res, err := svc.repo.LatestTestResult(ctx, patientID); err == nil {
		dash.LatestScores = &res.Scores
	} else if errors.Cause(err) != ErrNotFound {
		return Dashboard{}, err
	}
	return dash, nil
}
