package discovery

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// collector gathers delivered plugs behind a lock so test goroutines and
// the feed's forwarding goroutine never race.
type collector struct {
	mu    sync.Mutex
	plugs []Plug
}

func (c *collector) deliver(p Plug) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plugs = append(c.plugs, p)
}

func (c *collector) snapshot() []Plug {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Plug(nil), c.plugs...)
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.plugs)
}

// === Unit Tests: Static ===

func TestStatic_Enumerate(t *testing.T) {
	source := NewStatic("builtin")
	source.Add("app",
		Plug{Label: "codec", ID: "gzip", Implementation: 1},
		Plug{Label: "codec", ID: "zstd", Implementation: 2},
	)
	source.Add("other", Plug{Label: "codec", ID: "lz4", Implementation: 3})

	plugs, err := source.Enumerate(context.Background(), "app")
	require.NoError(t, err)
	require.Len(t, plugs, 2)
	require.Equal(t, "gzip", plugs[0].ID)
	require.Equal(t, "zstd", plugs[1].ID)
}

func TestStatic_Enumerate_UnknownRegistryIsEmpty(t *testing.T) {
	source := NewStatic("builtin")

	plugs, err := source.Enumerate(context.Background(), "missing")
	require.NoError(t, err)
	require.Empty(t, plugs)
}

func TestStatic_Subscribe_ReplaysExistingPlugs(t *testing.T) {
	source := NewStatic("builtin")
	source.Add("app", Plug{Label: "codec", ID: "gzip", Implementation: 1})

	var got collector
	err := source.Subscribe(context.Background(), "app", got.deliver)
	require.NoError(t, err)

	// Replay happens before Subscribe returns.
	require.Equal(t, 1, got.count())
	require.Equal(t, "gzip", got.snapshot()[0].ID)
}

func TestStatic_Subscribe_DeliversLatePlugs(t *testing.T) {
	source := NewStatic("builtin")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got collector
	require.NoError(t, source.Subscribe(ctx, "app", got.deliver))

	source.Add("app", Plug{Label: "codec", ID: "gzip", Implementation: 1})

	require.Eventually(t, func() bool {
		return got.count() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestStatic_Subscribe_AtMostOncePerPlug(t *testing.T) {
	source := NewStatic("builtin")
	plug := Plug{Label: "codec", ID: "gzip", Implementation: 1}
	source.Add("app", plug)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got collector
	require.NoError(t, source.Subscribe(ctx, "app", got.deliver))
	require.Equal(t, 1, got.count())

	// Announcing the same (label, id) again must not re-deliver.
	source.Add("app", plug)
	source.Add("app", Plug{Label: "codec", ID: "zstd", Implementation: 2})

	require.Eventually(t, func() bool {
		return got.count() == 2
	}, time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 2, got.count())
}

func TestStatic_Subscribe_FiltersByRegistry(t *testing.T) {
	source := NewStatic("builtin")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got collector
	require.NoError(t, source.Subscribe(ctx, "app", got.deliver))

	source.Add("other", Plug{Label: "codec", ID: "gzip", Implementation: 1})
	source.Add("app", Plug{Label: "codec", ID: "zstd", Implementation: 2})

	require.Eventually(t, func() bool {
		return got.count() == 1
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, "zstd", got.snapshot()[0].ID)
}

func TestStatic_Subscribe_StopsOnCancel(t *testing.T) {
	source := NewStatic("builtin")

	ctx, cancel := context.WithCancel(context.Background())

	var got collector
	require.NoError(t, source.Subscribe(ctx, "app", got.deliver))

	cancel()
	time.Sleep(20 * time.Millisecond)

	source.Add("app", Plug{Label: "codec", ID: "gzip", Implementation: 1})
	time.Sleep(50 * time.Millisecond)
	require.Zero(t, got.count())
}

func TestStatic_MultipleSubscribers(t *testing.T) {
	source := NewStatic("builtin")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var first, second collector
	require.NoError(t, source.Subscribe(ctx, "app", first.deliver))
	require.NoError(t, source.Subscribe(ctx, "app", second.deliver))

	source.Add("app", Plug{Label: "codec", ID: "gzip", Implementation: 1})

	require.Eventually(t, func() bool {
		return first.count() == 1 && second.count() == 1
	}, time.Second, 10*time.Millisecond)
}
