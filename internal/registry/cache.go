package registry

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/ytget/kicktracker/internal/model"
)

// DefaultCacheSize is the dormant cache capacity when none is configured
const DefaultCacheSize = 64

// dormantCache holds projects that left the desired set. Eviction is the only
// place a TrackedProject is dropped for good.
type dormantCache struct {
	items   *lru.Cache[string, *model.TrackedProject]
	taking  string
	evicted int
	log     *zap.Logger
}

func newDormantCache(size int, log *zap.Logger) (*dormantCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c := &dormantCache{log: log}
	items, err := lru.NewWithEvict(size, c.onEvict)
	if err != nil {
		return nil, fmt.Errorf("create dormant cache: %w", err)
	}
	c.items = items
	return c, nil
}

// onEvict also fires on Remove; take marks its own key so it is not counted.
func (c *dormantCache) onEvict(id string, p *model.TrackedProject) {
	if id == c.taking {
		return
	}
	c.evicted++
	c.log.Info("dormant project evicted",
		zap.String("project", id),
		zap.String("state", p.State.String()),
	)
}

func (c *dormantCache) put(p *model.TrackedProject) {
	c.items.Add(p.ID, p)
}

// take removes and returns a dormant project
func (c *dormantCache) take(id string) (*model.TrackedProject, bool) {
	p, ok := c.items.Peek(id)
	if !ok {
		return nil, false
	}
	c.taking = id
	c.items.Remove(id)
	c.taking = ""
	return p, true
}

func (c *dormantCache) peek(id string) (*model.TrackedProject, bool) {
	return c.items.Peek(id)
}

func (c *dormantCache) len() int {
	return c.items.Len()
}
