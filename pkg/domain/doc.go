/*
Package domain contains the core models of the field line tracer.

It defines the vector type, the trace configuration and result, the calibration
context read by field models, and the termination reasons and errors. This package
is kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Vec3: Cartesian vector used for positions (planetary radii) and fields (nT).
  - TraceConfig: Immutable per-trace inputs (start, direction, tolerances, boundaries, capacity).
  - TraceResult: Ordered points, the boundary crossing endpoint and the termination Reason.
  - Calibration: Epoch-dependent dipole tilt, moment and GEO/GSW rotation.
  - TraceRequest / TraceRecord: Serializable request and stored outcome used by adapters.
*/
package domain
