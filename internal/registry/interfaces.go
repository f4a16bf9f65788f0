package registry

import (
	"context"
	"time"

	"github.com/ytget/kicktracker/internal/model"
)

// Surface is the presentation side of the registry. Calls are made while the
// registry lock is held, so implementations must not call back into it and
// should only copy what they need from p.
type Surface interface {
	// Attach appends the project at the end of container c
	Attach(p *model.TrackedProject, c model.Container)

	// Detach removes the project from whatever container holds it
	Detach(p *model.TrackedProject)

	SetText(p *model.TrackedProject, field model.Field, text string)
	SetFraction(p *model.TrackedProject, fraction float64)
	SetStale(p *model.TrackedProject, stale bool)
}

// Tracker defines the interface for the project registry.
type Tracker interface {
	SetUpdateCallback(func(Summary))
	Reconcile(ctx context.Context, desired []string) (Plan, error)
	ApplyScrape(id string, record model.ProjectRecord, err error)
	Tick(now time.Time)
	SetHideAfter(policy HideAfter)
	Refreshable() []string
	Summary() Summary
}
