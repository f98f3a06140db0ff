package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// SessionPurger removes expired entries and reports how many were dropped.
type SessionPurger interface {
	PurgeExpired() int
}

// SessionPurgeScheduler runs the session purge on a fixed cron schedule.
type SessionPurgeScheduler struct {
	cronEngine *cron.Cron
	purger     SessionPurger
	logger     *logrus.Logger
	cronSpec   string
}

func NewSessionPurgeScheduler(purger SessionPurger, logger *logrus.Logger, cronSpec string) *SessionPurgeScheduler {
	return &SessionPurgeScheduler{
		cronEngine: cron.New(cron.WithLocation(time.UTC)),
		purger:     purger,
		logger:     logger,
		cronSpec:   cronSpec,
	}
}

func (s *SessionPurgeScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		if purged := s.purger.PurgeExpired(); purged > 0 {
			s.logger.Infof("Purged %d expired admin sessions", purged)
		}
	})
	if err != nil {
		return err
	}
	s.cronEngine.Start()
	s.logger.Infof("Session purge scheduled (%s)", s.cronSpec)
	return nil
}

func (s *SessionPurgeScheduler) Stop() {
	ctx := s.cronEngine.Stop() // Waits for a running purge to finish.
	<-ctx.Done()
}
