package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/ytget/kicktracker/internal/config"
	"github.com/ytget/kicktracker/internal/logger"
	"github.com/ytget/kicktracker/internal/platform"
	"github.com/ytget/kicktracker/internal/registry"
	"github.com/ytget/kicktracker/internal/scraper"
)

// Job names
const (
	JobRefresh = "refresh"
	JobTick    = "tick"
)

// FailureThreshold is the number of consecutive failed scrapes after which a
// project is retried on a backoff schedule instead of every cycle.
const FailureThreshold = 2

// SettingsSource provides the tracker settings; *config.TrackerStore satisfies it
type SettingsSource interface {
	Get() config.TrackerSettings
}

// SettingsFunc adapts a plain function to SettingsSource
type SettingsFunc func() config.TrackerSettings

// Get calls f
func (f SettingsFunc) Get() config.TrackerSettings {
	return f()
}

// RefresherOptions configures a Refresher
type RefresherOptions struct {
	DataInterval time.Duration
	TickInterval time.Duration
	Backoff      bool
	BackoffMax   time.Duration
	Logger       *zap.Logger
}

type retryState struct {
	failures int
	policy   *backoff.ExponentialBackOff
	next     time.Time
}

// Refresher ties settings, scraper and registry together
type Refresher struct {
	tracker  registry.Tracker
	scraper  scraper.Scraper
	settings SettingsSource
	clock    platform.Clock
	opts     RefresherOptions
	log      *zap.Logger

	mu          sync.Mutex // serializes data refreshes
	retries     map[string]*retryState
	hideApplied bool
	hideAfter   string

	onReconcile func(registry.Plan, error)
}

// NewRefresher creates a refresher
func NewRefresher(tracker registry.Tracker, s scraper.Scraper, settings SettingsSource, clock platform.Clock, opts RefresherOptions) *Refresher {
	if clock == nil {
		clock = platform.SystemClock{}
	}
	if opts.DataInterval <= 0 {
		opts.DataInterval = 30 * time.Second
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.BackoffMax <= 0 {
		opts.BackoffMax = 10 * time.Minute
	}
	return &Refresher{
		tracker:  tracker,
		scraper:  s,
		settings: settings,
		clock:    clock,
		opts:     opts,
		log:      logger.OrNop(opts.Logger),
		retries:  make(map[string]*retryState),
	}
}

// SetReconcileCallback sets the callback invoked after each reconcile
func (r *Refresher) SetReconcileCallback(callback func(registry.Plan, error)) {
	r.mu.Lock()
	r.onReconcile = callback
	r.mu.Unlock()
}

// Register adds the refresh and tick jobs to s
func (r *Refresher) Register(s *Scheduler) error {
	if err := s.Every(JobRefresh, r.opts.DataInterval, func(ctx context.Context) {
		r.RefreshData(ctx)
	}); err != nil {
		return err
	}
	return s.Every(JobTick, r.opts.TickInterval, r.Tick)
}

// Tick advances countdowns and deadline transitions
func (r *Refresher) Tick(context.Context) {
	r.tracker.Tick(r.clock.Now())
}

// Resync runs a data refresh right away, e.g. after the settings were saved
func (r *Refresher) Resync(ctx context.Context) {
	r.RefreshData(ctx)
}

// RefreshData re-reads settings, reconciles against the profile listing and
// re-scrapes every displayed active project. Individual failures are logged
// and never stop the batch.
func (r *Refresher) RefreshData(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings := r.settings.Get()
	r.applyHideAfter(settings.HideAfter)

	created := make(map[string]bool)
	profileIDs, err := r.scraper.ProfileProjects(ctx, settings.Profile)
	if err != nil {
		r.log.Warn("profile fetch failed, keeping current projects",
			zap.String("profile", settings.Profile), zap.Error(err))
	} else {
		desired := registry.Desired(profileIDs, settings.Other)
		plan, err := r.tracker.Reconcile(ctx, desired)
		if err != nil {
			r.log.Warn("reconcile incomplete", zap.Error(err))
		}
		for _, id := range plan.ToCreate {
			created[id] = true
		}
		if r.onReconcile != nil {
			r.onReconcile(plan, err)
		}
	}

	for _, id := range r.tracker.Refreshable() {
		if ctx.Err() != nil {
			return
		}
		if created[id] || !r.due(id) {
			continue
		}
		record, err := r.scraper.Scrape(ctx, id)
		r.tracker.ApplyScrape(id, record, err)
		r.recordResult(id, err)
	}
}

func (r *Refresher) applyHideAfter(raw string) {
	if r.hideApplied && raw == r.hideAfter {
		return
	}
	r.hideApplied = true
	r.hideAfter = raw
	r.tracker.SetHideAfter(registry.ParseHideAfter(raw))
}

// due reports whether id may be scraped this cycle
func (r *Refresher) due(id string) bool {
	state, ok := r.retries[id]
	if !ok || state.next.IsZero() {
		return true
	}
	return !r.clock.Now().Before(state.next)
}

func (r *Refresher) recordResult(id string, err error) {
	if err == nil {
		delete(r.retries, id)
		return
	}

	state, ok := r.retries[id]
	if !ok {
		state = &retryState{}
		r.retries[id] = state
	}
	state.failures++
	r.log.Warn("refresh scrape failed",
		zap.String("project", id),
		zap.Int("failures", state.failures),
		zap.Error(err),
	)

	if !r.opts.Backoff || state.failures < FailureThreshold {
		return
	}
	if state.policy == nil {
		state.policy = r.newBackOff()
	}
	wait := state.policy.NextBackOff()
	if wait == backoff.Stop {
		wait = r.opts.BackoffMax
	}
	state.next = r.clock.Now().Add(wait)
	r.log.Info("backing off project", zap.String("project", id), zap.Duration("wait", wait))
}

func (r *Refresher) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.opts.DataInterval
	b.MaxInterval = r.opts.BackoffMax
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}
