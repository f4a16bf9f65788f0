package registry

import (
	"slices"
	"sync"

	"github.com/ytget/kicktracker/internal/model"
)

// fakeSurface keeps the visible state of every entry the way a UI would
type fakeSurface struct {
	mu         sync.Mutex
	containers map[model.Container][]string // entry ids in display order
	texts      map[string]map[model.Field]string
	fractions  map[string]float64
	stale      map[string]bool
	attaches   int
	detaches   int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		containers: make(map[model.Container][]string),
		texts:      make(map[string]map[model.Field]string),
		fractions:  make(map[string]float64),
		stale:      make(map[string]bool),
	}
}

func (s *fakeSurface) Attach(p *model.TrackedProject, c model.Container) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attaches++
	s.containers[c] = append(s.containers[c], p.EntryID)
}

func (s *fakeSurface) Detach(p *model.TrackedProject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detaches++
	for c, ids := range s.containers {
		s.containers[c] = slices.DeleteFunc(ids, func(id string) bool { return id == p.EntryID })
	}
}

func (s *fakeSurface) SetText(p *model.TrackedProject, field model.Field, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.texts[p.EntryID] == nil {
		s.texts[p.EntryID] = make(map[model.Field]string)
	}
	s.texts[p.EntryID][field] = text
}

func (s *fakeSurface) SetFraction(p *model.TrackedProject, fraction float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fractions[p.EntryID] = fraction
}

func (s *fakeSurface) SetStale(p *model.TrackedProject, stale bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale[p.EntryID] = stale
}

func (s *fakeSurface) count(c model.Container, entryID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, id := range s.containers[c] {
		if id == entryID {
			n++
		}
	}
	return n
}

func (s *fakeSurface) entries(c model.Container) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.containers[c])
}

func (s *fakeSurface) fields(entryID string) map[model.Field]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[model.Field]string, len(s.texts[entryID]))
	for k, v := range s.texts[entryID] {
		out[k] = v
	}
	return out
}
