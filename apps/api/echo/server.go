package echoapi

import (
	"context"
	"net/http"
	"os"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/equilibrar/core"
	"github.com/trezcool/equilibrar/core/appointment"
	"github.com/trezcool/equilibrar/core/enrollment"
	"github.com/trezcool/equilibrar/core/program"
	"github.com/trezcool/equilibrar/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Logger   core.Logger
		DB       *sqlx.DB
		Shutdown chan os.Signal

		UserSvc        *user.Service
		ProgramSvc     *program.Service
		EnrollmentSvc  *enrollment.Service
		AppointmentSvc *appointment.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)
	s.app.GET("/health", s.health)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerProgramAPI(v1, jwt, s.opts.ProgramSvc)
	registerEnrollmentAPI(v1, jwt, s.opts.EnrollmentSvc, s.opts.ProgramSvc)
	registerAppointmentAPI(v1, jwt, s.opts.AppointmentSvc)
}

// signalShutdown asks main() to gracefully shut the API down.
func (s *server) signalShutdown() {
	if s.opts.Shutdown != nil {
		s.opts.Shutdown <- syscall.SIGTERM
	}
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Bienvenido/a a la API de Clínica Equilibrar!")
}

func (s *server) health(ctx echo.Context) error {
	status := echo.Map{
		"status": "ok",
		"env":    core.Conf.Env,
		"build":  core.Conf.Build,
	}
	if s.opts.DB != nil {
		if err := s.opts.DB.PingContext(ctx.Request().Context()); err != nil {
			status["status"] = "db unreachable"
			return ctx.JSON(http.StatusServiceUnavailable, status)
		}
	}
	return ctx.JSON(http.StatusOK, status)
}
