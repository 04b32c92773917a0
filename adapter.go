package multipla

import (
	"fmt"

	"github.com/monkeython/multipla/internal/log"
	"github.com/monkeython/multipla/rated"
)

// Adapter is one extension point: a rated dictionary whose keys are
// implementation identifiers and whose values are the implementations
// themselves. Rate, Top and HighestRated come from the embedded dict and
// let callers prioritize among competing implementations.
type Adapter struct {
	*rated.Dict[any]
	label string
}

// NewAdapter creates an empty adapter for the given extension point label.
func NewAdapter(label string) *Adapter {
	return &Adapter{
		Dict:  rated.NewDict[any](),
		label: label,
	}
}

// Label returns the extension point name this adapter serves.
func (a *Adapter) Label() string { return a.label }

// PlugIn registers impl under id and returns the implementation that is
// registered once the call completes. Registration is strictly one-shot:
// if id is already occupied, PlugIn returns an AlreadyPluggedError carrying
// the existing implementation and leaves it untouched. Callers that really
// want to override must use Set directly.
func (a *Adapter) PlugIn(id string, impl any) (any, error) {
	stored, inserted := a.SetDefault(id, impl)
	if !inserted {
		return stored, &AlreadyPluggedError{Label: a.label, ID: id, Existing: stored}
	}
	log.Debug(log.CatRegistry, "plugged in", "label", a.label, "id", id)
	return stored, nil
}

// PlugOut removes the implementation registered under id. Unlike Delete it
// is a no-op when id is absent.
func (a *Adapter) PlugOut(id string) {
	if err := a.Delete(id); err == nil {
		log.Debug(log.CatRegistry, "plugged out", "label", a.label, "id", id)
	}
}

// Registered returns a snapshot of the registered implementations keyed by
// implementation identifier.
func (a *Adapter) Registered() map[string]any {
	entries := a.Ranked()
	result := make(map[string]any, len(entries))
	for _, entry := range entries {
		result[entry.Key] = entry.Value
	}
	return result
}

func (a *Adapter) String() string {
	return fmt.Sprintf("<Adapter %q>", a.label)
}
