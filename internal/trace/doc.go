// Package trace records checker phases for diagnosing slow or stuck runs.
//
// Enable tracing via command-line flags:
//
//	approxc check --trace=- --trace-level=phase kernel.c
//
// Tracer implementations:
//
//   - Nop: no-op tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr), text or NDJSON
//   - RingTracer: circular buffer, dumped when the checker panics
//   - MultiTracer: fan-out
//
// Every tracer created by New belongs to a session identified by a UUID; the
// session ID is stamped on each event so traces of parallel runs can be merged.
//
// Levels: off, error (crash dumps only), phase (driver and passes), detail
// (per translation unit), debug (per function).
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "flow", parentID)
//	defer span.End("")
package trace
