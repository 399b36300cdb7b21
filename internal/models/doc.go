// Package models defines the core domain models for the fingrow group
// expense ledger.
//
// # Aggregate
//
// Group is the aggregate root: it owns Members, Bills and Settlements. The
// engine packages (calculator, ledger) operate on a Group loaded into memory
// and are pure with respect to it; the storage package owns persistence.
//
// # Money
//
// All monetary fields are shopspring decimals. Computed shares are rounded
// half-up to cents at the point they are produced, so the sum invariants on
// Bill hold exactly, not approximately.
//
// # Design Principles
//
//  1. Stable string IDs (UUID format) for every entity; relationships use ID
//     strings, never pointers, to avoid circular references.
//  2. Members are group-local people, not accounts. A User is an account that
//     owns groups; a Member does not need a User behind it.
//  3. Bills are immutable after creation except for per-split settled flags
//     and whole-bill deletion.
//  4. Settlements are append-only; a mistake is corrected by a compensating
//     settlement, never by editing.
package models
