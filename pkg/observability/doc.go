/*
Package observability turns tracer lifecycle hooks into metrics and logs.

Metrics registers Prometheus collectors and exposes a domain.TraceHooks value feeding
them. LogHooks emits one structured record per phase change and termination. Chain
combines several hook sets so both can be attached to one engine.
*/
package observability
