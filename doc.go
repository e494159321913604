/*
Package fieldline traces magnetic field lines through a planetary magnetosphere.

Starting from a point, the engine follows the direction of the combined field of two
pluggable sources (an internal model such as a dipole, and an external model) with an
error-controlled Runge-Kutta integrator, until the line reaches the inner planetary
shell, escapes through the outer shell, or exhausts the caller's point budget.

# Concept

A trace is a small state machine: initializing, stepping, resolving_boundary and
terminated. Each accepted step is appended to the result. When a step lands outside the
shell, the crossing is re-sampled along the integrated curve and bisected until the
endpoint lies on the boundary radius within a configurable tolerance.

Field models implement ports.FieldEvaluator. The tracer receives exactly two of them and
never needs to change when a new model is added.

# Usage

Use Trace when you already hold evaluators, or Run to describe the whole request by model
name and let the engine resolve models, calibration and caching:

	eng, err := fieldline.New()
	if err != nil {
		log.Fatal(err)
	}

	req := domain.NewTraceRequest(domain.Vec3{X: 3}, domain.Forward)
	record, err := eng.Run(context.Background(), req)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(record.Result.Reason, record.Result.Endpoint)

Records are cached by a hash of the request, in memory by default, or in Redis, a local
pebble database or SQLite through WithStore. Concurrent identical requests are traced
once. Package dsl builds requests fluently.

# Coordinates

Positions are in planetary radii, fields in nT. The built-in dipole works in GSW
coordinates using the tilt from the calibration (see package calibration).
*/
package fieldline
