package model

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Text fragments shared by every renderer of a project
const (
	DoneLabel           = "Done"
	PrettyPercentFormat = "%.2f%%"
	EntryIDPrefix       = "project-"
)

// ProjectRecord is an immutable snapshot produced by one successful scrape.
type ProjectRecord struct {
	Title         string
	PercentRaised float64   // raw ratio, may exceed 1.0
	Pledged       float64   // raw amount in the project's currency
	PledgedAmount string    // locale formatted amount
	BackerCount   string    // opaque numeric string as scraped
	UpdateCount   string    // opaque numeric string as scraped
	EndTime       time.Time // always UTC
}

// Fraction returns the percent raised clamped to [0, 1] for bounded indicators.
func (r ProjectRecord) Fraction() float64 {
	if math.IsNaN(r.PercentRaised) || r.PercentRaised <= 0 {
		return 0
	}
	return math.Min(1.0, r.PercentRaised)
}

// PrettyPercent returns the unclamped percentage, e.g. "137.00%"
func (r ProjectRecord) PrettyPercent() string {
	return fmt.Sprintf(PrettyPercentFormat, r.PercentRaised*100)
}

// ActiveAt reports whether the deadline is strictly after now.
// A project exactly at its deadline is completed.
func (r ProjectRecord) ActiveAt(now time.Time) bool {
	return r.EndTime.After(now)
}

// TimeLeft returns the countdown label for now, or DoneLabel once the deadline passed
func (r ProjectRecord) TimeLeft(now time.Time) string {
	if !r.ActiveAt(now) {
		return DoneLabel
	}
	return FormatRemaining(r.EndTime.Sub(now))
}

// FormatRemaining renders a duration as "3 days, 4:05:06", "1 day, 0:00:09" or "4:05:06".
// Sub-second precision is dropped.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	days := total / 86400
	rem := total % 86400
	hours := rem / 3600
	minutes := (rem % 3600) / 60
	seconds := rem % 60

	var b strings.Builder
	switch {
	case days == 1:
		b.WriteString("1 day, ")
	case days > 1:
		b.WriteString(fmt.Sprintf("%d days, ", days))
	}
	b.WriteString(fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds))
	return b.String()
}

// TrackedProject is the live entity bound to one project identifier
type TrackedProject struct {
	ID      string // normalized identifier, e.g. "creator/slug"
	EntryID string // stable handle for the presentation layer

	Record ProjectRecord
	State  Lifecycle

	Displayed  bool
	Container  Container // where it is attached when Displayed
	Suppressed bool      // created but hidden by the hide-after policy

	Stale       bool   // last scrape failed; Record is from an earlier success
	LastError   string // last scrape error message if any
	LastScraped time.Time
}

// NewTrackedProject creates a project from its first scrape. The initial state
// is decided by comparing the deadline with now.
func NewTrackedProject(id string, record ProjectRecord, now time.Time) *TrackedProject {
	state := LifecycleActive
	if !record.ActiveAt(now) {
		state = LifecycleCompleted
	}
	return &TrackedProject{
		ID:          id,
		EntryID:     generateEntryID(),
		Record:      record,
		State:       state,
		LastScraped: now,
	}
}

// Complete moves the project to LifecycleCompleted. It reports whether a
// transition happened; completed projects never go back to active.
func (p *TrackedProject) Complete() bool {
	if p.State.IsFinished() {
		return false
	}
	p.State = LifecycleCompleted
	return true
}

// Update replaces the record after a successful scrape and clears staleness
func (p *TrackedProject) Update(record ProjectRecord, now time.Time) {
	p.Record = record
	p.Stale = false
	p.LastError = ""
	p.LastScraped = now
}

// MarkStale flags the project after a failed scrape; the record is kept.
func (p *TrackedProject) MarkStale(err error) {
	p.Stale = true
	if err != nil {
		p.LastError = err.Error()
	}
}

// Attach records that the project is visible in container c
func (p *TrackedProject) Attach(c Container) {
	p.Displayed = true
	p.Suppressed = false
	p.Container = c
}

// Detach records that the project left its container
func (p *TrackedProject) Detach() {
	p.Displayed = false
	p.Container = ContainerNone
}

// GetDisplayTitle returns the scraped title, falling back to the identifier
func (p *TrackedProject) GetDisplayTitle() string {
	title := strings.TrimSpace(p.Record.Title)
	if title != "" {
		return title
	}
	return p.ID
}

// generateEntryID generates a unique entry ID
func generateEntryID() string {
	return EntryIDPrefix + uuid.NewString()
}
