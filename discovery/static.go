package discovery

import (
	"context"
	"slices"
	"sync"

	"github.com/monkeython/multipla/internal/log"
)

// Static is an in-memory source. Embedding applications add plugs directly;
// plugs added after a subscription started are delivered to the subscriber
// as they arrive. The zero set is valid: a Static with no plugs enumerates
// nothing and delivers nothing.
type Static struct {
	name string
	mu   sync.RWMutex
	data map[string][]Plug // registry name -> plugs
	feed *feed
}

// NewStatic creates an empty static source with the given source name.
func NewStatic(name string) *Static {
	return &Static{
		name: name,
		data: make(map[string][]Plug),
		feed: newFeed(),
	}
}

// Name identifies the source.
func (s *Static) Name() string { return s.name }

// Add registers plugs for a registry and announces them to subscribers.
func (s *Static) Add(registry string, plugs ...Plug) {
	s.mu.Lock()
	s.data[registry] = append(s.data[registry], plugs...)
	s.mu.Unlock()

	for _, p := range plugs {
		log.Debug(log.CatDiscovery, "static plug added",
			"source", s.name, "registry", registry, "label", p.Label, "id", p.ID)
		s.feed.announce(registry, p)
	}
}

// Enumerate returns a snapshot of the plugs known for the registry.
func (s *Static) Enumerate(_ context.Context, registry string) ([]Plug, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data[registry]), nil
}

// Subscribe delivers current and future plugs for the registry to fn,
// at most once each, until ctx is cancelled.
func (s *Static) Subscribe(ctx context.Context, registry string, fn func(Plug)) error {
	return s.feed.subscribe(ctx, s.name, registry, s.Enumerate, fn)
}
