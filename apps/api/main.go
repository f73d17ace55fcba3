package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/trezcool/equilibrar/apps/api/echo"
	"github.com/trezcool/equilibrar/core"
	"github.com/trezcool/equilibrar/core/appointment"
	"github.com/trezcool/equilibrar/core/enrollment"
	"github.com/trezcool/equilibrar/core/program"
	"github.com/trezcool/equilibrar/core/user"
	"github.com/trezcool/equilibrar/services/email"
	"github.com/trezcool/equilibrar/services/logger"
	"github.com/trezcool/equilibrar/services/reminder"
	"github.com/trezcool/equilibrar/storage/database"
	"github.com/trezcool/equilibrar/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, core.Conf)
	logger.Enable(!core.Conf.Debug)

	if err := run(logger); err != nil {
		logger.Fatal("error", err)
	}
}

func run(logger core.Logger) error {
	// set up DB
	db, err := database.Open(core.Conf)
	if err != nil {
		return err
	}
	defer db.Close()

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	progSvc := program.NewService(program.NewCatalog())
	enrSvc := enrollment.NewService(sqlxrepos.NewEnrollmentRepository(db), progSvc)
	apptSvc := appointment.NewService(sqlxrepos.NewAppointmentRepository(db), usrSvc, mailSvc)

	// appointment reminders
	reminders := remindersvc.NewScheduler(apptSvc, logger, core.Conf)
	if err := reminders.Start(); err != nil {
		return err
	}
	defer reminders.Stop()

	// start API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(
		&echoapi.Options{
			Address:        core.Conf.Server.Address(),
			Logger:         logger,
			DB:             db,
			Shutdown:       shutdown,
			UserSvc:        usrSvc,
			ProgramSvc:     progSvc,
			EnrollmentSvc:  enrSvc,
			AppointmentSvc: apptSvc,
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening on " + core.Conf.Server.Address())
		serverErrors <- app.Start()
	}()

	select {
	case err := <-serverErrors:
		return err
	case sig := <-shutdown:
		logger.Info("shutting down: " + sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), core.Conf.Server.ShutdownTimeout)
		defer cancel()

		if err := app.Stop(ctx); err != nil {
			return err
		}
	}
	return nil
}
