// Package engine implements Felix's ingest policy on top of internal/store:
// resolving each typed field=value pair to its interned ids, deciding
// whether event-driven ingestion should suppress an unchanged value, and
// committing the whole batch as one transaction.
//
// CRITICAL PATTERNS:
//
// CP-1: All-Or-Nothing Batches
// A single Ingest call either commits every field in the batch or none of
// them — partial ingestion of a record update is never observable.
//
// CP-2: Temporality Is a Per-Call Policy, Not Stored State
// EventDriven vs ObservationDriven only changes whether an unchanged value
// produces a new fact row; it is never persisted alongside the fact itself.
package engine
