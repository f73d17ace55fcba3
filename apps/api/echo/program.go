package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/equilibrar/core/program"
)

type programApi struct {
	svc *program.Service
}

func registerProgramAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *program.Service) {
	api := programApi{svc: svc}

	pg := g.Group("/programs", jwt)
	pg.GET("", api.query)
	pg.GET("/:id", api.retrieve)
	pg.GET("/:id/sessions", api.querySessions, staffMiddleware())
	pg.GET("/:id/questionnaire", api.retrieveQuestionnaire)
}

func (api *programApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.QueryAll())
}

func (api *programApi) retrieve(ctx echo.Context) error {
	prog, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting program")
	}
	return ctx.JSON(http.StatusOK, prog)
}

// querySessions returns the full ungated content of a program. Patients get
// their gated view via the dashboard instead.
func (api *programApi) querySessions(ctx echo.Context) error {
	sessions, err := api.svc.Sessions(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *programApi) retrieveQuestionnaire(ctx echo.Context) error {
	items, err := api.svc.Questionnaire(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting questionnaire")
	}
	return ctx.JSON(http.StatusOK, items)
}
