// Package parser converts the external, line-oriented input formats
// (spec.md §6.2, §6.3) into internal/engine.Item batches, and renders
// internal/store rows back out to the fact/snapshot JSON shapes of §6.4.
//
// Nothing in this package participates in canonicalization or hashing —
// it only tokenizes, decodes JSON envelopes, and hands typed strings to
// internal/value's constructors. Out of scope per spec.md §1 ("the core"
// excludes the line-oriented parser); this package is the excluded
// collaborator, kept in the same module for a self-contained CLI.
package parser
