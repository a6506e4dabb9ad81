// Package diag defines the diagnostic model shared by all pipeline phases.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error).
//   - Code – compact numeric identifier with a stable string ID (LEX/SYN/SEM/IO/PRJ).
//     Code.Title is the rule name printed next to the ID, for example
//     "precision flow violation" or "approximate condition".
//   - Primary – the span of the offending construct.
//   - Qual – for qualifier diagnostics: the construct kind together with the
//     expected and found qualifiers.
//   - Notes – secondary spans ("previous declaration here").
//   - Fixes – structured text edits, e.g. wrapping a value in ENDORSE(...).
//
// # Emitting diagnostics
//
// Phases emit through a Reporter. ReportBuilder chains notes, qualifier details
// and fixes before Emit. BagReporter collects into a Bag, which supports sorting,
// deduplication and error queries. A unit with any error in its Bag produces no
// lowered output.
//
// Package diag performs no formatting or IO; rendering lives in internal/diagfmt.
package diag
