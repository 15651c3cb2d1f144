// Package diag defines the core diagnostic model shared by all pipeline phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced by the lexer, parser, and typechecker.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Model fix suggestions as structured edits that the driver or CLI can
//     materialise and optionally apply.
//
// # Scope
//
// Package diag does not perform any formatting, IO, or CLI integration.
// Rendering responsibilities live in internal/diagfmt; orchestration lives in
// the driver layer.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with a stable string form,
//     grouped by the error categories in section 7 of the error-handling design
//     (Parse, UnknownObject, IsNotA, DoesNotMatch, Ambiguous, TypeError,
//     Unimplemented, Internal).
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional Fix records describing how to address the problem.
//
// Notes should be used sparingly: each note must add new context (e.g. "value
// declared here") rather than repeating the diagnostic message.
//
// # Recovery policy
//
// The typechecker continues accumulating diagnostics into a Bag up to a
// configurable maximum (Bag.AtLimit), then rethrows instead of recovering.
// Every other pass is fail-fast: the first diagnostic aborts the pass.
//
// # Emitting diagnostics
//
// Phases should use a diag.Reporter to decouple emission from storage. A phase
// constructs a ReportBuilder via NewReportBuilder (or the helper functions
// ReportError/ReportWarning/ReportInfo), chains WithNote/WithFix, and calls
// Emit. When no additional metadata is needed, phases may call
// Reporter.Report(...) directly. diag.BagReporter aggregates diagnostics into
// a Bag, which supports sorting and deduplication.
//
// # Consumers
//
//   - internal/diagfmt: renders Diagnostics into human-readable and machine
//     formats.
//   - internal/driver: coordinates bag collection per file/project and
//     transports diagnostic data to CLI commands.
package diag
