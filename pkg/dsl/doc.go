/*
Package dsl provides a fluent API for describing traces in Go code.

	req, err := dsl.Trace(6.6, 0, 0).
		Backward().
		External("uniform", map[string]any{"bz": -5}).
		Tilt(20).
		Within(1, 30).
		Build()

The result is an ordinary domain.TraceRequest, so it can be passed to
fieldline.Engine.Run or serialized for the HTTP API. Build validates the
tracing configuration; model names are resolved later by the engine's registry.
*/
package dsl
