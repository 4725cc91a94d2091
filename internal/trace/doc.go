// Package trace provides a tracing subsystem for the scopetree front end.
//
// Spans cover file runs, pipeline phases and single scope expansions, so a
// slow or non-terminating expansion can be located.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	scopetree dump --trace=- --trace-level=phase main.swift
//
// # Architecture
//
// The package provides several tracer implementations:
//
//   - Nop: discards everything when tracing is off
//   - StreamTracer: writes text, NDJSON or Chrome trace JSON as events arrive
//   - RingTracer: keeps the last N events and writes them on Close
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
// Tracing verbosity is controlled by levels:
//
//   - LevelOff: no tracing
//   - LevelError: heartbeats only
//   - LevelPhase: file runs and pipeline phases
//   - LevelDetail: plus cache hits
//   - LevelDebug: plus every expansion, dedup hit and rescue
//
// # Scopes
//
// Events are categorized by scope:
//
//   - ScopeDriver: build_file and build_dir runs
//   - ScopeFile: per-file bookkeeping
//   - ScopePass: pipeline passes (parse, build, expand, verify)
//   - ScopeNode: scope expansions, dedup hits and rescues
//
// # Context Propagation
//
// Tracers travel through the pipeline in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "parse", parentID)
//	defer span.End("")
package trace
