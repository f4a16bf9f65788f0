package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ytget/kicktracker/internal/logger"
)

// ErrRunning is returned when jobs are changed after Start
var ErrRunning = errors.New("scheduler already running")

type job struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context)
}

// Scheduler runs each job on its own goroutine as "run, then wait interval",
// so a job never overlaps itself.
type Scheduler struct {
	mu      sync.Mutex
	jobs    []job
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	log     *zap.Logger
}

// New creates an empty scheduler
func New(log *zap.Logger) *Scheduler {
	return &Scheduler{log: logger.OrNop(log)}
}

// Every registers fn to run every interval
func (s *Scheduler) Every(name string, interval time.Duration, fn func(ctx context.Context)) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}
	if fn == nil {
		return fmt.Errorf("job %s: nil function", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrRunning
	}
	s.jobs = append(s.jobs, job{name: name, interval: interval, fn: fn})
	return nil
}

// Start launches every registered job. The first run of each job happens
// immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}
	s.log.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
	return nil
}

// Stop cancels every job and waits for the running ones to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("scheduler stopped")
}

// Running reports whether Start was called without a matching Stop
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) loop(ctx context.Context, j job) {
	defer s.wg.Done()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.invoke(ctx, j)
			timer.Reset(j.interval)
		}
	}
}

// invoke runs one iteration; a panic is logged and the job keeps its schedule
func (s *Scheduler) invoke(ctx context.Context, j job) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("job panicked", zap.String("job", j.name), zap.Any("panic", r))
		}
	}()
	j.fn(ctx)
}
