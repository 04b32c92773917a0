// Package multipla is an in-process plugin registry. A registry groups
// named extension points; each extension point collects competing
// implementations that callers score with numeric ratings, and a lookup
// resolves to the highest-rated implementation.
//
//	codecs, _ := multipla.PowerUp(ctx, "codecs", source)
//	adapter := codecs.SwitchOn("content-types")
//	_, _ = adapter.PlugIn("json", jsonCodec)
//	_, _ = adapter.PlugIn("msgpack", msgpackCodec)
//	_ = adapter.Rate(map[string]float64{"msgpack": 2, "json": 1})
//
//	codec, err := codecs.Resolve("content-types") // msgpackCodec
//
// Two PowerUp calls with the same registry name return the identical
// *Multipla for the lifetime of the process.
package multipla
