package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/equilibrar/core"
	"github.com/trezcool/equilibrar/core/enrollment"
	"github.com/trezcool/equilibrar/core/program"
)

type enrollmentApi struct {
	svc     *enrollment.Service
	progSvc *program.Service
}

func registerEnrollmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *enrollment.Service, progSvc *program.Service) {
	api := enrollmentApi{svc: svc, progSvc: progSvc}

	eg := g.Group("/enrollments", jwt, staffMiddleware())
	eg.POST("", api.create)
	eg.GET("", api.query)
	eg.GET("/:id", api.retrieve)
	eg.PUT("/:id/status", api.updateStatus)

	// patient-scoped endpoints; :id is the patient ID
	cg := g.Group("/clients/:id", jwt, ownerOrStaffMiddleware())
	cg.GET("/dashboard", api.dashboard)
	cg.GET("/sessions", api.querySessions)
	cg.GET("/progress", api.queryProgress)
	cg.PUT("/progress", api.upsertProgress)
	cg.GET("/progress/week/:week", api.retrieveProgress)
	cg.GET("/results", api.queryResults)
	cg.POST("/results", api.createResult)
}

func (api *enrollmentApi) create(ctx echo.Context) error {
	var data enrollment.NewEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEnrollment")
	}

	enr, err := api.svc.Enroll(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == enrollment.ErrAlreadyEnrolled {
			return core.NewValidationError(err)
		}
		return errors.Wrap(err, "enrolling patient")
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *enrollmentApi) query(ctx echo.Context) error {
	var (
		enrs []enrollment.Enrollment
		err  error
	)
	rctx := ctx.Request().Context()
	if patientID := ctx.QueryParam("patient_id"); patientID != "" {
		enrs, err = api.svc.QueryByPatient(rctx, patientID)
	} else if programID := ctx.QueryParam("program_id"); programID != "" {
		enrs, err = api.svc.QueryByProgram(rctx, programID)
	} else {
		return core.NewValidationError(errors.New("patient_id or program_id is required"))
	}
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	if enrs == nil {
		enrs = []enrollment.Enrollment{}
	}
	return ctx.JSON(http.StatusOK, enrs)
}

func (api *enrollmentApi) retrieve(ctx echo.Context) error {
	enr, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting enrollment")
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *enrollmentApi) updateStatus(ctx echo.Context) error {
	var data StatusUpdateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdateRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	enr, err := api.svc.SetStatus(ctx.Request().Context(), ctx.Param("id"), data.Status)
	if err != nil {
		if errors.Cause(err) == enrollment.ErrInvalidTransition {
			return core.NewValidationError(err, core.FieldError{Field: "status", Error: err.Error()})
		}
		return errors.Wrap(err, "updating enrollment status")
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *enrollmentApi) dashboard(ctx echo.Context) error {
	dash, err := api.svc.Dashboard(ctx.Request().Context(), ctx.Param("id"), time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}

func (api *enrollmentApi) querySessions(ctx echo.Context) error {
	sessions, err := api.svc.VisibleSessions(ctx.Request().Context(), ctx.Param("id"), time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "querying visible sessions")
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *enrollmentApi) queryProgress(ctx echo.Context) error {
	recs, err := api.svc.QueryProgress(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying progress")
	}
	if recs == nil {
		recs = []enrollment.WeekProgress{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *enrollmentApi) upsertProgress(ctx echo.Context) error {
	var data enrollment.ProgressUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProgressUpdate")
	}

	wp, err := api.svc.UpsertProgress(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "upserting progress")
	}
	return ctx.JSON(http.StatusOK, wp)
}

func (api *enrollmentApi) retrieveProgress(ctx echo.Context) error {
	week, err := strconv.Atoi(ctx.Param("week"))
	if err != nil {
		return core.NewValidationError(enrollment.ErrWeekOutOfRange,
			core.FieldError{Field: "week", Error: "week must be a number"})
	}

	wp, err := api.svc.GetProgress(ctx.Request().Context(), ctx.Param("id"), week)
	if err != nil {
		return errors.Wrap(err, "getting progress")
	}
	return ctx.JSON(http.StatusOK, wp)
}

func (api *enrollmentApi) queryResults(ctx echo.Context) error {
	results, err := api.svc.QueryTestResults(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying test results")
	}
	if results == nil {
		results = []enrollment.TestResult{}
	}
	return ctx.JSON(http.StatusOK, results)
}

// createResult records a clinical test result for a patient. The caller
// either submits the four subscale scores directly, or the raw questionnaire
// answers to be aggregated against the patient's program.
func (api *enrollmentApi) createResult(ctx echo.Context) error {
	var data TestResultRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TestResultRequest")
	}

	rctx := ctx.Request().Context()
	patientID := ctx.Param("id")

	scores := data.Scores
	if len(data.Answers) > 0 {
		enr, err := api.svc.GetActive(rctx, patientID)
		if err != nil {
			return errors.Wrap(err, "getting active enrollment")
		}
		s, err := api.progSvc.AggregateScores(enr.ProgramID, data.Answers)
		if err != nil {
			return errors.Wrap(err, "aggregating scores")
		}
		scores = &s
	}
	if scores == nil {
		return core.NewValidationError(errors.New("either scores or answers are required"))
	}

	if err := api.svc.RecordTestResult(rctx, patientID, data.Week, *scores); err != nil {
		return errors.Wrap(err, "recording test result")
	}
	return ctx.NoContent(http.StatusCreated)
}

type (
	StatusUpdateRequest struct {
		Status string `json:"status" validate:"required,oneof=pending active completed cancelled"`
	}

	TestResultRequest struct {
		Week    int             `json:"week"`
		Answers map[int]int     `json:"answers"`
		Scores  *program.Scores `json:"scores"`
	}
)

func (sr *StatusUpdateRequest) Validate() error {
	sr.Status = core.CleanString(sr.Status, true /* lower */)
	return core.Validate.Struct(sr)
}
