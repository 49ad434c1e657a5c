package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderProcessor is the job the scheduler drives, implemented by app.ReminderService.
type ReminderProcessor interface {
	ProcessDueReminders(ctx context.Context) error
}

type ReminderScheduler struct {
	cronEngine *cron.Cron
	processor  ReminderProcessor
	logger     *logrus.Entry
	cronSpec   string // e.g. "0 9 * * *" (09:00 daily)
	jobTimeout time.Duration
}

// NewReminderScheduler evaluates cronSpec in loc, which should match the
// clock the reminder service uses for "today".
func NewReminderScheduler(processor ReminderProcessor, logger *logrus.Entry, cronSpec string, loc *time.Location) *ReminderScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderScheduler{
		cronEngine: cron.New(
			cron.WithLocation(loc),
			// A slow run must not overlap the next one.
			cron.WithChain(cron.SkipIfStillRunning(cron.VerbosePrintfLogger(logger))),
		),
		processor:  processor,
		logger:     logger,
		cronSpec:   cronSpec,
		jobTimeout: 5 * time.Minute,
	}
}

// Start registers the reminder job and starts the cron engine.
func (s *ReminderScheduler) Start() error {
	s.logger.WithField("spec", s.cronSpec).Info("Starting reminder scheduler")

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for due reminders")
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("could not add reminder cron job %q: %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	s.logger.Info("Reminder scheduler started")
	return nil
}

// RunOnce processes due reminders immediately. main calls it at startup so
// reminders missed while the bot was down go out without waiting a day.
func (s *ReminderScheduler) RunOnce(ctx context.Context) {
	started := time.Now()
	if err := s.processor.ProcessDueReminders(ctx); err != nil {
		s.logger.WithError(err).Error("Error during reminder processing")
		return
	}
	s.logger.WithField("duration", time.Since(started).String()).Debug("Reminder processing finished")
}

// Stop stops scheduling new runs and waits for a running one to finish.
func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Reminder scheduler gracefully stopped")
}
