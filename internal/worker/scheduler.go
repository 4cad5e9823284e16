// Package worker schedules the periodic alert passes.
//
// Both cron triggers feed a single run queue drained by one goroutine, so a
// daily pass and a change-detection pass can never mutate per-user alert
// state concurrently. An overdue trigger waits behind the running pass; a
// trigger that fires while its own pass is still queued is dropped.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/airsentry/airsentry/internal/alert"
)

// Cron expressions for the two alert triggers.
const (
	DailySchedule  = "0 8 * * *"
	ChangeSchedule = "*/30 * * * *"
)

// DefaultPassTimeout bounds one alert pass end to end.
const DefaultPassTimeout = 10 * time.Minute

// AlertRunner runs alert passes. Implemented by alert.Job.
type AlertRunner interface {
	RunDaily(ctx context.Context) (*alert.PassResult, error)
	RunChangeDetection(ctx context.Context) (*alert.PassResult, error)
}

// SchedulerConfig holds configuration for the scheduler.
type SchedulerConfig struct {
	Alerts      AlertRunner
	Logger      zerolog.Logger
	PassTimeout time.Duration
}

// Scheduler owns the cron triggers and the serialized pass queue.
type Scheduler struct {
	cron        *gocron.Scheduler
	alerts      AlertRunner
	logger      zerolog.Logger
	passTimeout time.Duration

	queue chan passRequest
	done  chan struct{}
	once  sync.Once
}

type passRequest struct {
	name string
	run  func(ctx context.Context) (*alert.PassResult, error)
}

// NewScheduler creates a new scheduler.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	timeout := cfg.PassTimeout
	if timeout <= 0 {
		timeout = DefaultPassTimeout
	}

	return &Scheduler{
		cron:        gocron.NewScheduler(time.UTC),
		alerts:      cfg.Alerts,
		logger:      cfg.Logger,
		passTimeout: timeout,
		// One waiting slot per trigger kind is enough: queueing the same
		// pass twice would just run it back to back.
		queue: make(chan passRequest, 2),
		done:  make(chan struct{}),
	}
}

// Start registers both triggers and starts the worker goroutine.
func (s *Scheduler) Start() error {
	go s.drain()

	if _, err := s.cron.Cron(DailySchedule).Do(func() {
		s.enqueue(passRequest{name: "daily", run: s.alerts.RunDaily})
	}); err != nil {
		return err
	}

	if _, err := s.cron.Cron(ChangeSchedule).Do(func() {
		s.enqueue(passRequest{name: "change-detection", run: s.alerts.RunChangeDetection})
	}); err != nil {
		return err
	}

	s.cron.StartAsync()
	s.logger.Info().
		Str("daily", DailySchedule).
		Str("change_detection", ChangeSchedule).
		Msg("alert schedules registered")
	return nil
}

// Stop halts the cron triggers and the worker goroutine. Queued passes are
// abandoned; the running pass finishes.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.once.Do(func() { close(s.done) })
}

// TriggerDaily queues a daily pass outside its schedule.
func (s *Scheduler) TriggerDaily() {
	s.enqueue(passRequest{name: "daily", run: s.alerts.RunDaily})
}

// TriggerChangeDetection queues a change-detection pass outside its schedule.
func (s *Scheduler) TriggerChangeDetection() {
	s.enqueue(passRequest{name: "change-detection", run: s.alerts.RunChangeDetection})
}

func (s *Scheduler) enqueue(req passRequest) {
	select {
	case s.queue <- req:
	default:
		s.logger.Warn().
			Str("pass", req.name).
			Msg("pass queue full, dropping trigger")
	}
}

func (s *Scheduler) drain() {
	for {
		select {
		case <-s.done:
			return
		case req := <-s.queue:
			s.runOne(req)
		}
	}
}

func (s *Scheduler) runOne(req passRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), s.passTimeout)
	defer cancel()

	result, err := req.run(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("pass", req.name).
			Msg("alert pass failed")
		return
	}

	s.logger.Info().
		Str("pass", result.Pass).
		Int("sent", result.Sent).
		Dur("duration", result.Duration).
		Msg("scheduled pass finished")
}
