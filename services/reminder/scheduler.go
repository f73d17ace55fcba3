package remindersvc

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/trezcool/equilibrar/core"
	"github.com/trezcool/equilibrar/core/appointment"
)

// Scheduler runs the daily appointment reminder job.
type Scheduler struct {
	scheduler *gocron.Scheduler
	apptSvc   *appointment.Service
	logger    core.Logger
	runAt     string
	window    time.Duration
}

func NewScheduler(apptSvc *appointment.Service, logger core.Logger, conf *core.Config) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		apptSvc:   apptSvc,
		logger:    logger,
		runAt:     conf.Reminder.RunAt,
		window:    conf.Reminder.Window,
	}
}

// Start schedules the reminder job and starts the scheduler without blocking.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(1).Day().At(s.runAt).Do(s.sendReminders); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) sendReminders() {
	sent, err := s.apptSvc.SendReminders(context.Background(), time.Now().UTC(), s.window)
	if err != nil {
		s.logger.Error(fmt.Sprintf("sending appointment reminders: %v", err), err)
		return
	}
	if sent > 0 {
		s.logger.Info(fmt.Sprintf("sent %d appointment reminder(s)", sent))
	}
}
