package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ytget/kicktracker/internal/logger"
	"github.com/ytget/kicktracker/internal/model"
	"github.com/ytget/kicktracker/internal/platform"
	"github.com/ytget/kicktracker/internal/scraper"
)

// Plan is the outcome of diffing the desired identifiers against the registry.
type Plan struct {
	ToActivate []string // dormant, deadline ahead: reattach to Active
	ToComplete []string // dormant, deadline passed: reattach to Completed
	ToCreate   []string // unknown: scrape and create
	ToCache    []string // live but no longer desired: detach and keep dormant
}

// Empty reports whether applying the plan would change nothing
func (p Plan) Empty() bool {
	return len(p.ToActivate) == 0 && len(p.ToComplete) == 0 &&
		len(p.ToCreate) == 0 && len(p.ToCache) == 0
}

// Summary counts projects per place for status labels
type Summary struct {
	Active    int
	Completed int
	Hidden    int
	Dormant   int
	Stale     int
}

// Options configures a Registry
type Options struct {
	CacheSize int
	HideAfter HideAfter
	Logger    *zap.Logger
}

// Registry tracks every known project and drives the surface
type Registry struct {
	mu sync.Mutex

	live  map[string]*model.TrackedProject
	order []string // live ids in insertion order
	cache *dormantCache

	scraper   scraper.Scraper
	surface   Surface
	clock     platform.Clock
	hideAfter HideAfter

	log      *zap.Logger
	onUpdate func(Summary) // callback for status labels
}

// New creates a registry that scrapes through s and renders onto surface
func New(s scraper.Scraper, surface Surface, clock platform.Clock, opts Options) (*Registry, error) {
	if s == nil || surface == nil {
		return nil, errors.New("registry needs a scraper and a surface")
	}
	if clock == nil {
		clock = platform.SystemClock{}
	}
	log := logger.OrNop(opts.Logger)

	cache, err := newDormantCache(opts.CacheSize, log)
	if err != nil {
		return nil, err
	}

	return &Registry{
		live:      make(map[string]*model.TrackedProject),
		cache:     cache,
		scraper:   s,
		surface:   surface,
		clock:     clock,
		hideAfter: opts.HideAfter,
		log:       log,
	}, nil
}

// SetUpdateCallback sets the callback invoked after every change in counts
func (r *Registry) SetUpdateCallback(callback func(Summary)) {
	r.mu.Lock()
	r.onUpdate = callback
	r.mu.Unlock()
}

// Desired returns the ordered union of profile and extra identifiers.
// Invalid identifiers are dropped and duplicates keep their first position.
func Desired(profileIDs, extras []string) []string {
	seen := make(map[string]bool, len(profileIDs)+len(extras))
	out := make([]string, 0, len(profileIDs)+len(extras))
	for _, list := range [][]string{profileIDs, extras} {
		for _, raw := range list {
			id, ok := scraper.NormalizeID(raw)
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Plan computes the changes Reconcile would make for desired at now
func (r *Registry) Plan(desired []string, now time.Time) Plan {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.plan(desired, now)
}

func (r *Registry) plan(desired []string, now time.Time) Plan {
	var plan Plan
	wanted := make(map[string]bool, len(desired))

	for _, id := range desired {
		if wanted[id] {
			continue
		}
		wanted[id] = true

		if _, ok := r.live[id]; ok {
			continue
		}
		if p, ok := r.cache.peek(id); ok {
			if p.State.IsActive() && p.Record.ActiveAt(now) {
				plan.ToActivate = append(plan.ToActivate, id)
			} else {
				plan.ToComplete = append(plan.ToComplete, id)
			}
			continue
		}
		plan.ToCreate = append(plan.ToCreate, id)
	}

	for _, id := range r.order {
		if !wanted[id] {
			plan.ToCache = append(plan.ToCache, id)
		}
	}
	return plan
}

// Reconcile brings the registry in line with desired. Dormant projects are
// reattached without scraping; unknown ones are scraped outside the lock.
// Failed creates are reported in the joined error and retried next time.
func (r *Registry) Reconcile(ctx context.Context, desired []string) (Plan, error) {
	r.mu.Lock()
	now := r.clock.Now()
	plan := r.plan(desired, now)

	for _, id := range plan.ToCache {
		r.stash(id)
	}
	for _, id := range plan.ToActivate {
		r.revive(id, now)
	}
	for _, id := range plan.ToComplete {
		r.revive(id, now)
	}
	r.notify()
	r.mu.Unlock()

	if len(plan.ToCache)+len(plan.ToActivate)+len(plan.ToComplete) > 0 {
		r.log.Info("reconciled from cache",
			zap.Int("cached", len(plan.ToCache)),
			zap.Int("activated", len(plan.ToActivate)),
			zap.Int("completed", len(plan.ToComplete)),
		)
	}

	var errs []error
	for _, id := range plan.ToCreate {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		record, err := r.scraper.Scrape(ctx, id)
		if err != nil {
			r.log.Warn("failed to create project", zap.String("project", id), zap.Error(err))
			errs = append(errs, fmt.Errorf("create %s: %w", id, err))
			continue
		}
		r.create(id, record)
	}

	return plan, errors.Join(errs...)
}

// stash detaches a live project and parks it in the dormant cache
func (r *Registry) stash(id string) {
	p, ok := r.live[id]
	if !ok {
		return
	}
	if p.Displayed {
		r.surface.Detach(p)
		p.Detach()
	}
	r.forget(id)
	r.cache.put(p)
}

// revive moves a dormant project back into view
func (r *Registry) revive(id string, now time.Time) {
	p, ok := r.cache.take(id)
	if !ok {
		return
	}
	if p.State.IsActive() && !p.Record.ActiveAt(now) {
		p.Complete()
	}
	r.admit(p, now)
}

// create registers a freshly scraped project unless another path already did
func (r *Registry) create(id string, record model.ProjectRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.live[id]; ok {
		return
	}
	if _, ok := r.cache.peek(id); ok {
		return
	}

	now := r.clock.Now()
	p := model.NewTrackedProject(id, record, now)
	r.admit(p, now)
	r.log.Info("tracking project",
		zap.String("project", id),
		zap.String("state", p.State.String()),
		zap.Bool("hidden", p.Suppressed),
	)
	r.notify()
}

// admit adds p to the live set, attached or suppressed per the hide policy
func (r *Registry) admit(p *model.TrackedProject, now time.Time) {
	r.live[p.ID] = p
	r.order = append(r.order, p.ID)

	if p.State.IsFinished() && r.hideAfter.Hides(p.Record.EndTime, now) {
		p.Suppressed = true
		return
	}
	r.show(p, now)
}

func (r *Registry) show(p *model.TrackedProject, now time.Time) {
	c := model.ContainerFor(p.State)
	p.Attach(c)
	r.surface.Attach(p, c)
	r.render(p, now)
}

func (r *Registry) forget(id string) {
	delete(r.live, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

// render pushes every field of the current record to the surface
func (r *Registry) render(p *model.TrackedProject, now time.Time) {
	rec := p.Record
	r.surface.SetText(p, model.FieldTitle, p.GetDisplayTitle())
	r.surface.SetText(p, model.FieldPledged, rec.PledgedAmount)
	r.surface.SetText(p, model.FieldPercent, rec.PrettyPercent())
	r.surface.SetText(p, model.FieldBackers, rec.BackerCount)
	r.surface.SetText(p, model.FieldUpdates, rec.UpdateCount)
	r.surface.SetText(p, model.FieldTimeLeft, timeLeft(p, now))
	r.surface.SetFraction(p, rec.Fraction())
	r.surface.SetStale(p, p.Stale)
}

func timeLeft(p *model.TrackedProject, now time.Time) string {
	if p.State.IsFinished() {
		return model.DoneLabel
	}
	return p.Record.TimeLeft(now)
}

// ApplyScrape records the result of a refresh scrape. On failure the project is
// only flagged stale and no field is touched.
func (r *Registry) ApplyScrape(id string, record model.ProjectRecord, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.live[id]
	if !ok {
		return
	}

	if err != nil {
		wasStale := p.Stale
		p.MarkStale(err)
		if p.Displayed && !wasStale {
			r.surface.SetStale(p, true)
		}
		if !wasStale {
			r.notify()
		}
		return
	}

	wasStale := p.Stale
	now := r.clock.Now()
	p.Update(record, now)
	if p.Displayed {
		r.render(p, now)
	}
	if wasStale {
		r.notify()
	}
}

// Tick refreshes the countdown of every displayed active project and moves
// those whose deadline passed to the Completed container.
func (r *Registry) Tick(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	moved := 0
	for _, id := range slices.Clone(r.order) {
		p := r.live[id]
		if !p.Displayed || !p.State.IsActive() {
			continue
		}
		if p.Record.ActiveAt(now) {
			r.surface.SetText(p, model.FieldTimeLeft, p.Record.TimeLeft(now))
			continue
		}
		if !p.Complete() {
			continue
		}
		r.surface.Detach(p)
		p.Detach()
		p.Attach(model.ContainerCompleted)
		r.surface.Attach(p, model.ContainerCompleted)
		r.render(p, now)
		moved++
		r.log.Info("project completed", zap.String("project", id))
	}
	if moved > 0 {
		r.notify()
	}
}

// SetHideAfter applies a new hide policy to projects already live. Nothing is
// re-scraped.
func (r *Registry) SetHideAfter(policy HideAfter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hideAfter = policy
	now := r.clock.Now()

	for _, id := range r.order {
		p := r.live[id]
		if !p.State.IsFinished() {
			continue
		}
		hides := policy.Hides(p.Record.EndTime, now)
		switch {
		case p.Suppressed && !hides:
			r.show(p, now)
		case p.Displayed && hides:
			r.surface.Detach(p)
			p.Detach()
			p.Suppressed = true
		}
	}
	r.notify()
}

// HideAfter returns the policy in effect
func (r *Registry) HideAfter() HideAfter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hideAfter
}

// Refreshable returns the displayed projects that have not completed yet,
// which are the ones worth re-scraping.
func (r *Registry) Refreshable() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.order))
	for _, id := range r.order {
		p := r.live[id]
		if p.Displayed && !p.State.IsFinished() {
			ids = append(ids, id)
		}
	}
	return ids
}

// Project returns a copy of a live or dormant project
func (r *Registry) Project(id string) (model.TrackedProject, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.live[id]; ok {
		return *p, true
	}
	if p, ok := r.cache.peek(id); ok {
		return *p, true
	}
	return model.TrackedProject{}, false
}

// Summary returns the current counts
func (r *Registry) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary()
}

func (r *Registry) summary() Summary {
	s := Summary{Dormant: r.cache.len()}
	for _, p := range r.live {
		switch {
		case p.Suppressed:
			s.Hidden++
		case p.Container == model.ContainerActive:
			s.Active++
		case p.Container == model.ContainerCompleted:
			s.Completed++
		}
		if p.Stale {
			s.Stale++
		}
	}
	return s
}

// notify must be called with the lock held
func (r *Registry) notify() {
	if r.onUpdate != nil {
		r.onUpdate(r.summary())
	}
}

var _ Tracker = (*Registry)(nil)
