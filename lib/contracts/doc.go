// Package contracts implements per-account storage accounting and lazy
// namespace deletion for contract-like entities living inside a keyed store.
//
// Every live contract owns one isolated storage namespace and one bookkeeping
// record (pair counts, total size, last-write tick, rent allowance). The
// package keeps the record exact on every mutation without ever re-scanning
// the namespace, and it decommissions namespaces of destroyed contracts
// lazily: the namespace is pushed onto a bounded deletion queue and drained
// across scheduling ticks under a strict per-tick cost budget, so destroying
// a contract with an arbitrarily large namespace never performs unbounded
// work in one step.
//
// Key Components:
//
//   - Engine: The central structure tying the collaborators together. It is
//     constructed from an explicit keyed store, tick source, cost table and
//     queue depth; there is no hidden global state. All persisted state (the
//     record table, the deletion queue and the namespace counter) lives in a
//     reserved namespace of the keyed store.
//
//   - Record states: An account is in exactly one of three states. Absent
//     (no record), Alive (*AliveRecord, full bookkeeping) or Tombstoned
//     (*Tombstone, a terminal marker retaining only a content commitment).
//     Only Alive records accept reads, writes and allowance changes.
//
//   - Deletion queue: A bounded list of orphaned namespaces with their
//     remaining pair counts. ProcessBatch drains it once per tick, resuming
//     partially deleted namespaces deterministically because the remaining
//     pair count is persisted with the queue.
//
// Concurrency: the engine assumes the single-actor tick-driven execution
// model of its host. Operations on the same Engine must not run in parallel;
// the underlying store engines are themselves thread-safe, but the
// record/queue read-modify-write cycles are not guarded by locks.
package contracts
