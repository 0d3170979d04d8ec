// Package ldb implements a persistent keyed store backed by goleveldb.
//
// Every entry is stored under the concatenation of the 32 byte namespace id
// and the hashed key, so one namespace occupies one contiguous key range of
// the underlying database. Namespace-scoped operations (lookups and bounded
// draining) therefore map directly onto prefix iteration.
//
// The engine inherits goleveldb's durability semantics: writes are visible to
// the next read, batch deletes are applied atomically.
package ldb
