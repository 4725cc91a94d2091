// Package diag defines the diagnostic model shared by the lexer, the parser
// and the scope-tree verifier.
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// string form (LEX/SYN/SCP/IO/PRJ/OBS prefixes), a short Message, the Primary
// span and optional Notes and Fixes.
//
// Phases emit through a Reporter so that storage stays decoupled from
// production. BagReporter collects into a Bag (sorting, dedup, filtering),
// DedupReporter drops repeats, MultiReporter fans out. ReportBuilder chains
// notes and fixes before a single Emit.
//
// Rendering lives in internal/diagfmt; this package performs no IO.
package diag
