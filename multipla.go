package multipla

import (
	"fmt"

	"github.com/monkeython/multipla/internal/log"
	"github.com/monkeython/multipla/rated"
)

// Multipla is a registry of extension points: a rated dictionary whose keys
// are extension point labels and whose values are the adapters serving
// them. Labels are canonicalized on every path, so differently punctuated
// but equivalent names address the same extension point.
type Multipla struct {
	*rated.Dict[*Adapter]
	label string
}

// New creates an empty registry with the given name. Most callers want
// PowerUp instead, which hands out one shared registry per name.
func New(label string) *Multipla {
	return &Multipla{
		Dict:  rated.NewDict[*Adapter](),
		label: label,
	}
}

// Label returns the registry name.
func (m *Multipla) Label() string { return m.label }

// SwitchOn returns the adapter for the given extension point, creating an
// empty one on first request. The get-or-create is atomic: concurrent
// callers for the same label all receive the same adapter.
func (m *Multipla) SwitchOn(label string) *Adapter {
	label = Canonicalize(label)
	adapter, created := m.SetDefault(label, NewAdapter(label))
	if created {
		log.Debug(log.CatRegistry, "switched on", "registry", m.label, "label", label)
	}
	return adapter
}

// SwitchOff removes the adapter for the given extension point. No-op when
// the label is unknown.
func (m *Multipla) SwitchOff(label string) {
	label = Canonicalize(label)
	if err := m.Delete(label); err == nil {
		log.Debug(log.CatRegistry, "switched off", "registry", m.label, "label", label)
	}
}

// Resolve canonicalizes name and returns the highest-rated implementation
// of that extension point. It returns an error wrapping ErrNotResolved when
// the extension point does not exist or has no implementations; callers for
// whom "nothing plugged in yet" is a normal state should use ResolveDefault.
func (m *Multipla) Resolve(name string) (any, error) {
	label := Canonicalize(name)
	adapter, err := m.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %s.%s: %w", ErrNotResolved, m.label, label, err)
	}
	impl, err := adapter.HighestRated()
	if err != nil {
		return nil, fmt.Errorf("%w: %s.%s: %w", ErrNotResolved, m.label, label, err)
	}
	return impl, nil
}

// ResolveDefault is Resolve with a caller-supplied fallback: when the
// extension point is missing or empty it returns def instead of an error.
func (m *Multipla) ResolveDefault(name string, def any) any {
	impl, err := m.Resolve(name)
	if err != nil {
		return def
	}
	return impl
}

func (m *Multipla) String() string {
	return fmt.Sprintf("<Multipla %q>", m.label)
}
