// Package maintenance runs periodic housekeeping for in-memory backends.
package maintenance

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job does one unit of cleanup and reports how many entries it removed.
type Job func() int

// Scheduler runs Jobs on cron schedules. Standard five-field expressions and
// descriptors such as "@hourly" or "@every 5m" are accepted.
type Scheduler struct {
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *zap.Logger
	running bool
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger.Named("MaintenanceScheduler"),
	}
}

// Add registers job under name. It must be called before Start.
func (s *Scheduler) Add(name, schedule string, job Job) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q for %s: %w", schedule, name, err)
	}
	_, err := s.cron.AddFunc(schedule, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	s.logger.Info("Maintenance job registered", zap.String("job", name), zap.String("schedule", schedule))
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	removed := job()
	if removed > 0 {
		s.logger.Info("Maintenance job completed", zap.String("job", name), zap.Int("removed", removed))
	} else {
		s.logger.Debug("Maintenance job completed, nothing removed", zap.String("job", name))
	}
}

// Len reports the number of registered jobs.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("Maintenance scheduler stopped")
}
