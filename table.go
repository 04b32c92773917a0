package multipla

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/monkeython/multipla/discovery"
	"github.com/monkeython/multipla/internal/log"
)

// Table maps registry names to their unique Multipla instance and tracks
// which discovery sources each registry is subscribed to. Registries are
// created lazily on first request and never evicted. The table lock is
// separate from the per-registry locks and is always released before any
// registry operation runs, so unrelated registries never contend.
//
// Most programs use the package-level PowerUp and Registry, which operate
// on a shared default table; tests build their own Table to stay isolated
// from process-wide state.
type Table struct {
	mu         sync.Mutex
	registries map[string]*Multipla
	subscribed map[string]map[string]bool // registry name -> source name
}

// NewTable creates an empty registry table.
func NewTable() *Table {
	return &Table{
		registries: make(map[string]*Multipla),
		subscribed: make(map[string]map[string]bool),
	}
}

// Registry returns the registry for name, creating it on first request.
// Every call with the same name returns the identical instance.
func (t *Table) Registry(name string) *Multipla {
	t.mu.Lock()
	defer t.mu.Unlock()

	registry, exists := t.registries[name]
	if !exists {
		registry = New(name)
		t.registries[name] = registry
		log.Debug(log.CatRegistry, "registry created", "name", name)
	}
	return registry
}

// PowerUp returns the registry for name and subscribes it to each source
// exactly once: sources (by Name) the registry is already subscribed to are
// skipped, so repeated PowerUp calls never double-register implementations.
// Subscriptions feed every discovered plug through SwitchOn + PlugIn and
// stay live until ctx is cancelled; conflicting plugs are dropped with a
// log entry, first registration wins.
func (t *Table) PowerUp(ctx context.Context, name string, sources ...discovery.Source) (*Multipla, error) {
	registry := t.Registry(name)

	for _, source := range sources {
		if !t.claim(name, source.Name()) {
			log.Debug(log.CatRegistry, "source already subscribed",
				"registry", name, "source", source.Name())
			continue
		}

		err := source.Subscribe(ctx, name, func(p discovery.Plug) {
			adapter := registry.SwitchOn(p.Label)
			if _, err := adapter.PlugIn(p.ID, p.Implementation); err != nil {
				var conflict *AlreadyPluggedError
				if errors.As(err, &conflict) {
					log.Warn(log.CatRegistry, "conflicting plug dropped",
						"registry", name, "source", source.Name(),
						"label", p.Label, "id", p.ID)
					return
				}
				log.ErrorErr(log.CatRegistry, "plug in failed", err,
					"registry", name, "source", source.Name(), "label", p.Label, "id", p.ID)
			}
		})
		if err != nil {
			t.release(name, source.Name())
			return nil, fmt.Errorf("subscribing %s to %s: %w", name, source.Name(), err)
		}
		log.Info(log.CatRegistry, "source subscribed", "registry", name, "source", source.Name())
	}
	return registry, nil
}

// claim marks a (registry, source) subscription, reporting whether it was new.
func (t *Table) claim(registry, source string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	subs, exists := t.subscribed[registry]
	if !exists {
		subs = make(map[string]bool)
		t.subscribed[registry] = subs
	}
	if subs[source] {
		return false
	}
	subs[source] = true
	return true
}

// release undoes a claim after a failed subscription.
func (t *Table) release(registry, source string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if subs, exists := t.subscribed[registry]; exists {
		delete(subs, source)
	}
}

// defaultTable backs the package-level accessors for the process lifetime.
var defaultTable = NewTable()

// PowerUp subscribes the named registry in the process-wide table to the
// given sources and returns it. See Table.PowerUp.
func PowerUp(ctx context.Context, name string, sources ...discovery.Source) (*Multipla, error) {
	return defaultTable.PowerUp(ctx, name, sources...)
}

// Registry returns the named registry from the process-wide table.
func Registry(name string) *Multipla {
	return defaultTable.Registry(name)
}
