package multipla

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// === Unit Tests: Multipla ===

func TestMultipla_SwitchOn_GetOrCreate(t *testing.T) {
	registry := New("test")

	adapter := registry.SwitchOn("codec")
	require.NotNil(t, adapter)
	require.Equal(t, "codec", adapter.Label())

	// Same label returns the identical adapter.
	again := registry.SwitchOn("codec")
	require.Same(t, adapter, again)
	require.Equal(t, 1, registry.Size())
}

func TestMultipla_SwitchOn_CanonicalizesLabel(t *testing.T) {
	registry := New("test")

	adapter := registry.SwitchOn("application/octet-stream")
	require.Equal(t, "application_octet_stream", adapter.Label())

	// A differently punctuated spelling addresses the same extension point.
	again := registry.SwitchOn("application_octet.stream")
	require.Same(t, adapter, again)
}

func TestMultipla_SwitchOff(t *testing.T) {
	registry := New("test")
	registry.SwitchOn("codec")

	registry.SwitchOff("codec")
	require.Zero(t, registry.Size())

	// Lenient on unknown and already removed labels.
	registry.SwitchOff("codec")
	registry.SwitchOff("never-there")
}

func TestMultipla_SwitchOff_CanonicalizesLabel(t *testing.T) {
	registry := New("test")
	registry.SwitchOn("a/b")

	registry.SwitchOff("a.b")
	require.Zero(t, registry.Size())
}

func TestMultipla_SwitchOff_DropsImplementations(t *testing.T) {
	registry := New("test")
	_, err := registry.SwitchOn("codec").PlugIn("gzip", "gzip-impl")
	require.NoError(t, err)

	registry.SwitchOff("codec")

	// Switching back on yields a fresh, empty adapter.
	adapter := registry.SwitchOn("codec")
	require.Zero(t, adapter.Size())
}

func TestMultipla_Resolve_ReturnsHighestRated(t *testing.T) {
	registry := New("test")
	adapter := registry.SwitchOn("codec")
	for _, id := range []string{"gzip", "zstd"} {
		_, err := adapter.PlugIn(id, id+"-impl")
		require.NoError(t, err)
	}
	require.NoError(t, adapter.Rate(map[string]float64{"zstd": 9}))

	impl, err := registry.Resolve("codec")
	require.NoError(t, err)
	require.Equal(t, "zstd-impl", impl)
}

func TestMultipla_Resolve_CanonicalizesName(t *testing.T) {
	registry := New("test")
	_, err := registry.SwitchOn("application/json").PlugIn("std", "json-impl")
	require.NoError(t, err)

	impl, err := registry.Resolve("application.json")
	require.NoError(t, err)
	require.Equal(t, "json-impl", impl)
}

func TestMultipla_Resolve_UnknownExtensionPoint(t *testing.T) {
	registry := New("test")

	_, err := registry.Resolve("missing")
	require.ErrorIs(t, err, ErrNotResolved)
}

func TestMultipla_Resolve_EmptyExtensionPoint(t *testing.T) {
	registry := New("test")
	registry.SwitchOn("codec")

	_, err := registry.Resolve("codec")
	require.ErrorIs(t, err, ErrNotResolved)
}

func TestMultipla_ResolveDefault(t *testing.T) {
	registry := New("test")

	// Missing extension point falls back.
	require.Equal(t, "fallback", registry.ResolveDefault("missing", "fallback"))

	// Empty extension point falls back too.
	registry.SwitchOn("codec")
	require.Equal(t, "fallback", registry.ResolveDefault("codec", "fallback"))

	// Once something is plugged, the registered implementation wins.
	_, err := registry.SwitchOn("codec").PlugIn("gzip", "gzip-impl")
	require.NoError(t, err)
	require.Equal(t, "gzip-impl", registry.ResolveDefault("codec", "fallback"))
}

func TestMultipla_RateExtensionPoints(t *testing.T) {
	registry := New("test")
	registry.SwitchOn("a")
	registry.SwitchOn("b")
	registry.SwitchOn("c")

	require.NoError(t, registry.Rate(map[string]float64{"b": 2, "c": 1}))

	require.Equal(t, []string{"b", "c", "a"}, registry.KeysByRating())
}

func TestMultipla_String(t *testing.T) {
	require.Equal(t, `<Multipla "test">`, New("test").String())
}
