// Package discovery supplies implementations to a registry. A source
// enumerates (label, id, implementation) triples for a named registry and
// lets subscribers hear about triples that only become known later, with
// at-most-once delivery per triple per subscriber.
package discovery

import (
	"context"

	"github.com/monkeython/multipla/internal/log"
	"github.com/monkeython/multipla/internal/pubsub"
)

// Plug is one discovered implementation for an extension point.
type Plug struct {
	Label          string // extension point label
	ID             string // implementation identifier
	Implementation any    // the implementation object itself
}

// Source enumerates implementations for a named registry.
type Source interface {
	// Name identifies the source. Subscribing a registry to two sources
	// with the same name is treated as subscribing to the same source.
	Name() string

	// Enumerate returns the plugs currently known for the registry.
	Enumerate(ctx context.Context, registry string) ([]Plug, error)

	// Subscribe invokes fn once per plug, for plugs already known at
	// subscription time and for plugs that become known afterwards, until
	// ctx is cancelled. Delivery is at most once per plug per subscriber.
	Subscribe(ctx context.Context, registry string, fn func(Plug)) error
}

// announcement pairs a plug with the registry it targets on the feed.
type announcement struct {
	registry string
	plug     Plug
}

// feed is the fan-out core shared by sources: a broker carrying plug
// announcements plus the replay-then-stream subscription logic.
type feed struct {
	broker *pubsub.Broker[announcement]
}

func newFeed() *feed {
	return &feed{broker: pubsub.NewBroker[announcement]()}
}

// announce publishes a plug for the given registry to all subscribers.
func (f *feed) announce(registry string, p Plug) {
	f.broker.Publish(pubsub.PluggedEvent, announcement{registry: registry, plug: p})
}

// subscribe attaches to the broker first, replays the plugs returned by
// enumerate, then forwards announcements from a goroutine. The per-subscriber
// seen set keyed by (label, id) makes replay/stream overlap harmless and
// gives the at-most-once guarantee.
func (f *feed) subscribe(ctx context.Context, source, registry string, enumerate func(context.Context, string) ([]Plug, error), fn func(Plug)) error {
	ch := f.broker.Subscribe(ctx)

	seen := make(map[string]bool)
	deliver := func(p Plug) {
		key := p.Label + "\x00" + p.ID
		if seen[key] {
			return
		}
		seen[key] = true
		fn(p)
	}

	plugs, err := enumerate(ctx, registry)
	if err != nil {
		return err
	}
	for _, p := range plugs {
		deliver(p)
	}

	// After replay the goroutine is the only writer of seen.
	log.SafeGo(log.CatDiscovery, "discovery.forward["+source+"/"+registry+"]", func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-ch:
				if !ok {
					return
				}
				if event.Payload.registry != registry {
					continue
				}
				deliver(event.Payload.plug)
			}
		}
	})
	return nil
}
