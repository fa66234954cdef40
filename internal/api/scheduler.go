package api

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/saltline/sendwave/internal/ports"
)

// Scheduler runs campaign sends on a cron schedule in serve mode.
type Scheduler struct {
	c   *cron.Cron
	log ports.Logger
}

// NewScheduler registers job under the given standard five-field cron
// expression (descriptors like @daily are accepted).
func NewScheduler(schedule string, job func(), log ports.Logger) (*Scheduler, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(cron.WithParser(parser))

	if _, err := c.AddFunc(schedule, job); err != nil {
		return nil, fmt.Errorf("parse cron schedule %q: %w", schedule, err)
	}
	return &Scheduler{c: c, log: log}, nil
}

// Start begins scheduling in a background goroutine.
func (s *Scheduler) Start() {
	s.c.Start()
	s.log.Info("scheduler started")
}

// Stop cancels future runs; in-flight jobs finish.
func (s *Scheduler) Stop() {
	s.c.Stop()
	s.log.Info("scheduler stopped")
}
