package scheduler

import (
	"errors"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// DefaultInterval is used when a non-positive sweep interval is configured.
const DefaultInterval = 120 * time.Second

// Sweepable is a cache that can evict its expired entries.
type Sweepable interface {
	DeleteExpired() int
}

// Scheduler periodically evicts expired cache entries, independent of read traffic.
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    Sweepable
	interval  time.Duration
	logger    zerolog.Logger
}

// New creates a new Scheduler sweeping target every interval.
func New(target Sweepable, interval time.Duration, logger zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		target:    target,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the sweep job and starts the underlying scheduler.
// The first sweep runs one interval after Start.
func (s *Scheduler) Start() error {
	if s.target == nil {
		return errors.New("scheduler: no sweep target configured")
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.sweep)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info().Dur("interval", s.interval).Msg("cache sweep scheduled")
	return nil
}

func (s *Scheduler) sweep() {
	if n := s.target.DeleteExpired(); n > 0 {
		s.logger.Debug().Int("evicted", n).Msg("cache sweep")
	}
}

// Stop stops the scheduler and cancels any future sweeps.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
