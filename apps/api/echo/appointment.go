package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/equilibrar/core"
	"github.com/trezcool/equilibrar/core/appointment"
)

type appointmentApi struct {
	svc *appointment.Service
}

func registerAppointmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *appointment.Service) {
	api := appointmentApi{svc: svc}

	ag := g.Group("/appointments", jwt)
	ag.POST("", api.create, staffMiddleware())
	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id/attendance", api.recordAttendance, staffMiddleware())
}

func (api *appointmentApi) create(ctx echo.Context) error {
	var data appointment.NewAppointment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAppointment")
	}

	appt, err := api.svc.Schedule(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "scheduling appointment")
	}
	return ctx.JSON(http.StatusCreated, appt)
}

// query lists appointments; patients only see their own.
func (api *appointmentApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	rctx := ctx.Request().Context()
	var appts []appointment.Appointment
	switch {
	case !claims.IsStaff():
		appts, err = api.svc.QueryByPatient(rctx, claims.Subject)
	case ctx.QueryParam("patient_id") != "":
		appts, err = api.svc.QueryByPatient(rctx, ctx.QueryParam("patient_id"))
	case ctx.QueryParam("professional_id") != "":
		appts, err = api.svc.QueryByProfessional(rctx, ctx.QueryParam("professional_id"))
	default:
		return core.NewValidationError(errors.New("patient_id or professional_id is required"))
	}
	if err != nil {
		return errors.Wrap(err, "querying appointments")
	}
	if appts == nil {
		appts = []appointment.Appointment{}
	}
	return ctx.JSON(http.StatusOK, appts)
}

func (api *appointmentApi) retrieve(ctx echo.Context) error {
	appt, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting appointment")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if !claims.IsStaff() && claims.Subject != appt.PatientID {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, appt)
}

func (api *appointmentApi) recordAttendance(ctx echo.Context) error {
	var data appointment.AttendanceUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AttendanceUpdate")
	}

	appt, err := api.svc.RecordAttendance(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "recording attendance")
	}
	return ctx.JSON(http.StatusOK, appt)
}
