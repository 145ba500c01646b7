package cache

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultSweepSchedule is the cron spec used when none is configured
const DefaultSweepSchedule = "@every 1m"

// Purger is implemented by caches that can drop their expired entries
type Purger interface {
	PurgeExpired() int
}

// Sweeper periodically removes expired entries so that histories nobody asks
// for again do not stay in memory until their key is overwritten.
type Sweeper struct {
	cron   *cron.Cron
	cache  Purger
	logger *logrus.Logger
}

// NewSweeper registers the sweep job on schedule
func NewSweeper(cache Purger, schedule string, logger *logrus.Logger) (*Sweeper, error) {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}

	s := &Sweeper{
		cron:   cron.New(),
		cache:  cache,
		logger: logger,
	}

	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return nil, fmt.Errorf("register cache sweep %q: %w", schedule, err)
	}

	return s, nil
}

// Start starts the sweep scheduler
func (s *Sweeper) Start() {
	s.cron.Start()
	s.logger.Info("Cache sweeper started")
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Cache sweeper stopped")
}

func (s *Sweeper) sweep() {
	removed := s.cache.PurgeExpired()
	if removed > 0 {
		s.logger.WithField("removed", removed).Debug("Swept expired cache entries")
	}
}
