package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ytget/kicktracker/internal/model"
	"github.com/ytget/kicktracker/internal/platform"
	"github.com/ytget/kicktracker/internal/scraper"
	"github.com/ytget/kicktracker/internal/scraper/mocks"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func record(title string, end time.Time) model.ProjectRecord {
	return model.ProjectRecord{
		Title:         title,
		PercentRaised: 0.5,
		Pledged:       500,
		PledgedAmount: "$500.00",
		BackerCount:   "10",
		UpdateCount:   "2",
		EndTime:       end,
	}
}

type fixture struct {
	reg     *Registry
	scraper *mocks.Scraper
	surface *fakeSurface
	clock   *platform.ManualClock
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		scraper: &mocks.Scraper{},
		surface: newFakeSurface(),
		clock:   platform.NewManualClock(base.Add(-Day)),
	}
	reg, err := New(f.scraper, f.surface, f.clock, opts)
	require.NoError(t, err)
	f.reg = reg
	return f
}

func (f *fixture) expectScrape(id string, rec model.ProjectRecord) {
	f.scraper.On("Scrape", mock.Anything, id).Return(rec, nil)
}

func (f *fixture) entry(t *testing.T, id string) model.TrackedProject {
	t.Helper()
	p, ok := f.reg.Project(id)
	require.True(t, ok, "project %s not tracked", id)
	return p
}

func TestDesired(t *testing.T) {
	got := Desired(
		[]string{"a/one", "b/two", "a/one"},
		[]string{"https://www.kickstarter.com/projects/c/three", "b/two", "bogus", " d/four "},
	)
	require.Equal(t, []string{"a/one", "b/two", "c/three", "d/four"}, got)
	require.Empty(t, Desired(nil, nil))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, newFakeSurface(), nil, Options{})
	require.Error(t, err)
	_, err = New(&mocks.Scraper{}, nil, nil, Options{})
	require.Error(t, err)
}

func TestReconcile_CreatesIntoContainers(t *testing.T) {
	f := newFixture(t, Options{})
	f.expectScrape("a/live", record("Live", base.Add(Day)))
	f.expectScrape("b/done", record("Done", base.Add(-2*Day)))

	plan, err := f.reg.Reconcile(context.Background(), []string{"a/live", "b/done"})
	require.NoError(t, err)
	require.Equal(t, []string{"a/live", "b/done"}, plan.ToCreate)

	live := f.entry(t, "a/live")
	require.Equal(t, model.LifecycleActive, live.State)
	require.Equal(t, []string{live.EntryID}, f.surface.entries(model.ContainerActive))
	require.Equal(t, "Live", f.surface.fields(live.EntryID)[model.FieldTitle])
	require.Equal(t, "2 days, 0:00:00", f.surface.fields(live.EntryID)[model.FieldTimeLeft])
	require.Equal(t, 0.5, f.surface.fractions[live.EntryID])

	done := f.entry(t, "b/done")
	require.Equal(t, model.LifecycleCompleted, done.State)
	require.Equal(t, []string{done.EntryID}, f.surface.entries(model.ContainerCompleted))
	require.Equal(t, model.DoneLabel, f.surface.fields(done.EntryID)[model.FieldTimeLeft])

	require.Equal(t, Summary{Active: 1, Completed: 1}, f.reg.Summary())
}

func TestReconcile_Idempotent(t *testing.T) {
	f := newFixture(t, Options{})
	f.expectScrape("a/one", record("One", base.Add(Day)))
	f.expectScrape("b/two", record("Two", base.Add(-Day)))
	desired := []string{"a/one", "b/two"}

	_, err := f.reg.Reconcile(context.Background(), desired)
	require.NoError(t, err)
	attaches, detaches := f.surface.attaches, f.surface.detaches

	plan, err := f.reg.Reconcile(context.Background(), desired)
	require.NoError(t, err)
	require.True(t, plan.Empty())
	require.Equal(t, attaches, f.surface.attaches)
	require.Equal(t, detaches, f.surface.detaches)
	f.scraper.AssertNumberOfCalls(t, "Scrape", 2)
}

func TestReconcile_ReattachFromCacheWithoutScrape(t *testing.T) {
	f := newFixture(t, Options{})
	f.expectScrape("a/one", record("One", base.Add(Day)))
	f.expectScrape("b/two", record("Two", base.Add(Day)))

	_, err := f.reg.Reconcile(context.Background(), []string{"a/one", "b/two"})
	require.NoError(t, err)
	two := f.entry(t, "b/two")

	plan, err := f.reg.Reconcile(context.Background(), []string{"a/one"})
	require.NoError(t, err)
	require.Equal(t, []string{"b/two"}, plan.ToCache)
	require.Zero(t, f.surface.count(model.ContainerActive, two.EntryID))
	require.Equal(t, 1, f.reg.Summary().Dormant)

	plan, err = f.reg.Reconcile(context.Background(), []string{"a/one", "b/two"})
	require.NoError(t, err)
	require.Equal(t, []string{"b/two"}, plan.ToActivate)
	require.Empty(t, plan.ToCreate)
	f.scraper.AssertNumberOfCalls(t, "Scrape", 2)

	again := f.entry(t, "b/two")
	require.Equal(t, two.EntryID, again.EntryID, "same entity comes back")
	require.Equal(t, 1, f.surface.count(model.ContainerActive, two.EntryID))
	require.Zero(t, f.reg.Summary().Dormant)
}

func TestReconcile_DormantProjectExpiresWhileCached(t *testing.T) {
	f := newFixture(t, Options{})
	f.expectScrape("a/one", record("One", base))

	_, err := f.reg.Reconcile(context.Background(), []string{"a/one"})
	require.NoError(t, err)
	_, err = f.reg.Reconcile(context.Background(), nil)
	require.NoError(t, err)

	f.clock.Set(base.Add(time.Hour))
	plan := f.reg.Plan([]string{"a/one"}, f.clock.Now())
	require.Equal(t, []string{"a/one"}, plan.ToComplete)

	_, err = f.reg.Reconcile(context.Background(), []string{"a/one"})
	require.NoError(t, err)

	p := f.entry(t, "a/one")
	require.Equal(t, model.LifecycleCompleted, p.State)
	require.Equal(t, 1, f.surface.count(model.ContainerCompleted, p.EntryID))
	require.Zero(t, f.surface.count(model.ContainerActive, p.EntryID))
}

func TestReconcile_FailedCreateRetried(t *testing.T) {
	f := newFixture(t, Options{})
	f.scraper.On("Scrape", mock.Anything, "a/one").
		Return(model.ProjectRecord{}, &scraper.TransportError{URL: "x", Status: 503}).Once()
	f.expectScrape("a/one", record("One", base.Add(Day)))

	_, err := f.reg.Reconcile(context.Background(), []string{"a/one"})
	require.ErrorIs(t, err, scraper.ErrTransport)
	_, ok := f.reg.Project("a/one")
	require.False(t, ok)

	plan, err := f.reg.Reconcile(context.Background(), []string{"a/one"})
	require.NoError(t, err)
	require.Equal(t, []string{"a/one"}, plan.ToCreate)
	f.entry(t, "a/one")
}

func TestReconcile_CanceledContext(t *testing.T) {
	f := newFixture(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.reg.Reconcile(ctx, []string{"a/one"})
	require.ErrorIs(t, err, context.Canceled)
	f.scraper.AssertNotCalled(t, "Scrape", mock.Anything, mock.Anything)
}

func TestTick_CompletesAtDeadline(t *testing.T) {
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(t, Options{})
	f.clock.Set(end.Add(-2 * time.Second))
	f.expectScrape("a/one", record("One", end))

	_, err := f.reg.Reconcile(context.Background(), []string{"a/one"})
	require.NoError(t, err)
	p := f.entry(t, "a/one")

	f.reg.Tick(end.Add(-time.Second))
	require.Equal(t, "0:00:01", f.surface.fields(p.EntryID)[model.FieldTimeLeft])
	require.Equal(t, model.LifecycleActive, f.entry(t, "a/one").State)

	for i := 0; i < 3; i++ {
		f.reg.Tick(end.Add(time.Second))
	}

	p = f.entry(t, "a/one")
	require.Equal(t, model.LifecycleCompleted, p.State)
	require.Equal(t, model.DoneLabel, f.surface.fields(p.EntryID)[model.FieldTimeLeft])
	require.Equal(t, 1, f.surface.count(model.ContainerCompleted, p.EntryID))
	require.Zero(t, f.surface.count(model.ContainerActive, p.EntryID))

	// completed never returns to active, even if time goes back
	f.reg.Tick(end.Add(-time.Hour))
	require.Equal(t, model.LifecycleCompleted, f.entry(t, "a/one").State)
	require.Equal(t, 1, f.surface.count(model.ContainerCompleted, p.EntryID))
}

func TestTick_EqualityMeansCompleted(t *testing.T) {
	f := newFixture(t, Options{})
	f.expectScrape("a/one", record("One", base))

	_, err := f.reg.Reconcile(context.Background(), []string{"a/one"})
	require.NoError(t, err)

	f.reg.Tick(base)
	require.Equal(t, model.LifecycleCompleted, f.entry(t, "a/one").State)
}

func TestApplyScrape_Success(t *testing.T) {
	f := newFixture(t, Options{})
	f.expectScrape("a/one", record("One", base.Add(Day)))
	_, err := f.reg.Reconcile(context.Background(), []string{"a/one"})
	require.NoError(t, err)

	updated := record("One renamed", base.Add(Day))
	updated.PercentRaised = 1.37
	updated.BackerCount = "11"
	f.reg.ApplyScrape("a/one", updated, nil)

	p := f.entry(t, "a/one")
	fields := f.surface.fields(p.EntryID)
	require.Equal(t, "One renamed", fields[model.FieldTitle])
	require.Equal(t, "137.00%", fields[model.FieldPercent])
	require.Equal(t, "11", fields[model.FieldBackers])
	require.Equal(t, 1.0, f.surface.fractions[p.EntryID])
	require.False(t, f.surface.stale[p.EntryID])
}

func TestApplyScrape_FailureKeepsFields(t *testing.T) {
	f := newFixture(t, Options{})
	f.expectScrape("a/one", record("One", base.Add(Day)))
	_, err := f.reg.Reconcile(context.Background(), []string{"a/one"})
	require.NoError(t, err)

	p := f.entry(t, "a/one")
	before := f.surface.fields(p.EntryID)
	fraction := f.surface.fractions[p.EntryID]

	failure := &scraper.TransportError{URL: "https://example.com", Err: errors.New("timeout")}
	f.reg.ApplyScrape("a/one", model.ProjectRecord{}, failure)

	require.Equal(t, before, f.surface.fields(p.EntryID))
	require.Equal(t, fraction, f.surface.fractions[p.EntryID])
	require.True(t, f.surface.stale[p.EntryID])

	p = f.entry(t, "a/one")
	require.True(t, p.Stale)
	require.Equal(t, "One", p.Record.Title)
	require.Equal(t, 1, f.reg.Summary().Stale)

	f.reg.ApplyScrape("a/one", record("One", base.Add(Day)), nil)
	require.False(t, f.surface.stale[p.EntryID])
	require.Zero(t, f.reg.Summary().Stale)
}

func TestApplyScrape_UnknownProjectIgnored(t *testing.T) {
	f := newFixture(t, Options{})
	f.reg.ApplyScrape("ghost/project", record("Ghost", base), nil)
	_, ok := f.reg.Project("ghost/project")
	require.False(t, ok)
}

func TestHideAfter_NonNumericSuppressesNothing(t *testing.T) {
	f := newFixture(t, Options{HideAfter: ParseHideAfter("abc")})
	f.expectScrape("a/ancient", record("Ancient", base.AddDate(-5, 0, 0)))

	_, err := f.reg.Reconcile(context.Background(), []string{"a/ancient"})
	require.NoError(t, err)

	p := f.entry(t, "a/ancient")
	require.False(t, p.Suppressed)
	require.Equal(t, 1, f.surface.count(model.ContainerCompleted, p.EntryID))
	require.Zero(t, f.reg.Summary().Hidden)
}

func TestHideAfter_SuppressAndRestore(t *testing.T) {
	f := newFixture(t, Options{HideAfter: ParseHideAfter("7")})
	f.expectScrape("a/old", record("Old", base.Add(-30*Day)))
	f.expectScrape("b/recent", record("Recent", base.Add(-2*Day)))

	var summaries []Summary
	f.reg.SetUpdateCallback(func(s Summary) { summaries = append(summaries, s) })

	_, err := f.reg.Reconcile(context.Background(), []string{"a/old", "b/recent"})
	require.NoError(t, err)

	old := f.entry(t, "a/old")
	require.True(t, old.Suppressed)
	require.False(t, old.Displayed)
	require.Zero(t, f.surface.count(model.ContainerCompleted, old.EntryID))
	require.Equal(t, Summary{Completed: 1, Hidden: 1}, f.reg.Summary())

	f.reg.SetHideAfter(ParseHideAfter(""))
	old = f.entry(t, "a/old")
	require.False(t, old.Suppressed)
	require.Equal(t, 1, f.surface.count(model.ContainerCompleted, old.EntryID))
	require.Equal(t, "Old", f.surface.fields(old.EntryID)[model.FieldTitle])
	f.scraper.AssertNumberOfCalls(t, "Scrape", 2)

	f.reg.SetHideAfter(ParseHideAfter("0"))
	require.Equal(t, Summary{Hidden: 2}, f.reg.Summary())
	require.Empty(t, f.surface.entries(model.ContainerCompleted))

	require.NotEmpty(t, summaries)
	require.Equal(t, Summary{Hidden: 2}, summaries[len(summaries)-1])
}

func TestRefreshable(t *testing.T) {
	f := newFixture(t, Options{HideAfter: ParseHideAfter("7")})
	f.expectScrape("a/live", record("Live", base.Add(Day)))
	f.expectScrape("b/done", record("Done", base.Add(-Day)))
	f.expectScrape("c/hidden", record("Hidden", base.Add(-30*Day)))

	_, err := f.reg.Reconcile(context.Background(), []string{"a/live", "b/done", "c/hidden"})
	require.NoError(t, err)
	require.Equal(t, []string{"a/live"}, f.reg.Refreshable())
}

func TestCacheEviction(t *testing.T) {
	f := newFixture(t, Options{CacheSize: 1})
	f.expectScrape("a/one", record("One", base.Add(Day)))
	f.expectScrape("b/two", record("Two", base.Add(Day)))

	_, err := f.reg.Reconcile(context.Background(), []string{"a/one", "b/two"})
	require.NoError(t, err)
	_, err = f.reg.Reconcile(context.Background(), nil)
	require.NoError(t, err)

	require.Equal(t, 1, f.reg.Summary().Dormant)
	require.Equal(t, 1, f.reg.cache.evicted)
	_, ok := f.reg.Project("a/one")
	require.False(t, ok, "oldest dormant project is dropped")
	_, ok = f.reg.Project("b/two")
	require.True(t, ok)

	plan := f.reg.Plan([]string{"a/one", "b/two"}, f.clock.Now())
	require.Equal(t, []string{"a/one"}, plan.ToCreate)
	require.Equal(t, []string{"b/two"}, plan.ToActivate)

	_, err = f.reg.Reconcile(context.Background(), []string{"b/two"})
	require.NoError(t, err)
	require.Equal(t, 1, f.reg.cache.evicted, "taking from the cache is not an eviction")
}
