// Package scheduler runs a job on a cron schedule, one run at a time.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	cronlib "github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Job is one scheduled unit of work, typically a full pipeline run
type Job func(ctx context.Context) error

var parser = cronlib.NewParser(cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow | cronlib.Descriptor)

// ParseSchedule parses a five-field cron expression or a descriptor such as
// "@daily" or "@every 6h"
func ParseSchedule(expr string) (cronlib.Schedule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("cron expression must not be empty")
	}
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return sched, nil
}

// Scheduler triggers a job at every activation of a cron schedule.
// A tick that arrives while a run is still active is skipped.
type Scheduler struct {
	expr     string
	schedule cronlib.Schedule
	job      Job
	now      func() time.Time

	running atomic.Bool
	runs    atomic.Int64
	skipped atomic.Int64
	wg      sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a new scheduler for expr
func NewScheduler(expr string, job Job) (*Scheduler, error) {
	sched, err := ParseSchedule(expr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		expr:     expr,
		schedule: sched,
		job:      job,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start starts the scheduler in a goroutine
func (s *Scheduler) Start() {
	log.Info().Str("schedule", s.expr).Time("next_run", s.Next()).Msg("Scheduler started")
	s.wg.Add(1)
	go s.run()
}

// Stop stops the scheduler, cancels an active run and waits for it to return
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	log.Info().Msg("Scheduler stopped")
}

// Next returns the next activation time
func (s *Scheduler) Next() time.Time {
	return s.schedule.Next(s.now())
}

// Running reports whether a run is active
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Runs returns the number of runs started
func (s *Scheduler) Runs() int64 {
	return s.runs.Load()
}

// Skipped returns the number of ticks dropped because a run was active
func (s *Scheduler) Skipped() int64 {
	return s.skipped.Load()
}

// run is the main scheduler loop
func (s *Scheduler) run() {
	defer s.wg.Done()

	for {
		timer := time.NewTimer(s.Next().Sub(s.now()))
		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.TryRun()
		}
	}
}

// TryRun starts the job in the background unless a run is already active.
// It reports whether a run was started.
func (s *Scheduler) TryRun() bool {
	if !s.running.CompareAndSwap(false, true) {
		s.skipped.Add(1)
		log.Warn().Msg("Previous run still active, skipping tick")
		return false
	}

	n := s.runs.Add(1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)

		started := s.now()
		log.Info().Int64("run", n).Msg("Scheduled run started")
		if err := s.job(s.ctx); err != nil {
			log.Error().Err(err).Int64("run", n).Msg("Scheduled run failed")
			return
		}
		log.Info().Int64("run", n).Dur("duration", s.now().Sub(started)).Msg("Scheduled run finished")
	}()
	return true
}
