// Package archive guards a ports.ResultStore with per-record locks so that a trace
// requested concurrently by several callers is computed and stored only once.
package archive
