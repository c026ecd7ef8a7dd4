// Package diag defines the triage data model shared by the runner, the
// aggregator and the renderers.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Category – closed tri-state tag (RawPointerUsage, MemoryFree,
//     Unclassified) defined in category.go.
//   - Text – the verbatim diagnostic unit as the interpreter printed it.
//   - Target – name of the invocation target that produced it.
//   - Location – optional primary source reference parsed from the text.
//
// Unclassified is a terminal classification, not a pipeline error: it means
// no known signature recognised the text.
//
// # Collections
//
// Bag holds the diagnostics of one invocation, or of a whole run once bags are
// merged. Bags keep insertion order; nothing in this package sorts them, since
// the report must follow invocation order.
//
// Verdict is the run-level outcome computed from the actionable diagnostics.
//
// # Scope
//
// Package diag performs no IO and no formatting beyond String helpers.
// Rendering lives in internal/diagfmt, classification in internal/triage.
package diag
