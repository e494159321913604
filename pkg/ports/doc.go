/*
Package ports defines the driven ports (interfaces) for the field line tracer.

These interfaces decouple the tracing core from external implementations, allowing
the engine to work with any field model and any storage backend.

# Key Interfaces

  - FieldEvaluator: Computes the field of one source (internal or external) at a position.
  - ResultStore: Persists finished trace records (memory, Redis, Pebble).
  - TraceService: Request-level entry point consumed by the HTTP and MCP adapters.
*/
package ports
