// Package triage turns raw interpreter output into classified diagnostics.
//
// The engine has three stages:
//
//   - Segment splits a diagnostic stream into units. A unit starts at a line
//     beginning with "error: " and runs to the next blank-line boundary.
//   - SignatureSet.Classify maps a unit to a diag.Category. Signatures are
//     checked in order and the first match wins.
//   - Accumulator collects per-invocation bags, drops trailer noise, streams
//     actionable diagnostics to a diag.Reporter and produces the verdict.
//
// A SignatureSet is immutable once built and safe to share.
package triage
