package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Scheduler runs the notification pipeline once a day at a configured local
// time. Used only in daemon mode; the default deployment is an external
// cron-like trigger invoking the binary directly.
type Scheduler struct {
	scheduler *gocron.Scheduler
	at        string
	job       func()
}

// New creates a Scheduler firing daily at the given HH:MM in tz.
func New(tz *time.Location, at string, job func()) *Scheduler {
	s := gocron.NewScheduler(tz)
	return &Scheduler{
		scheduler: s,
		at:        at,
		job:       job,
	}
}

// Start schedules the daily job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Day().At(s.at).Do(func() {
		log.Println("scheduler: running daily weather job")
		s.job()
		log.Println("scheduler: daily weather job finished")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
