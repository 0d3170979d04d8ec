package store

import "encoding/hex"

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

// NamespaceID identifies one isolated storage namespace. It is an opaque
// 32 byte value; callers derive it from a cryptographic hash and the store
// never interprets its contents.
type NamespaceID [32]byte

// String returns a short hex form for logging and diagnostics.
func (id NamespaceID) String() string {
	return hex.EncodeToString(id[:8])
}

// DropOutcome reports the result of a bounded DropKeys call.
type DropOutcome int

const (
	// DropAllRemoved means the namespace holds no more keys after the call.
	DropAllRemoved DropOutcome = iota
	// DropSomeRemaining means the removal limit was reached before the
	// namespace was empty.
	DropSomeRemaining
)

func (o DropOutcome) String() string {
	switch o {
	case DropAllRemoved:
		return "AllRemoved"
	case DropSomeRemaining:
		return "SomeRemaining"
	default:
		return "Unknown"
	}
}

// EngineType names a keyed-store engine implementation.
type EngineType string

const (
	EngineMem EngineType = "mem"
	EngineLdb EngineType = "ldb"
)

// EngineInfo describes the current state of a keyed store.
// All values are best-effort estimates; engines may compute them lazily.
type EngineInfo struct {
	Engine         EngineType `json:"engine"`
	NamespaceCount int        `json:"namespace_count"`
	KeyCount       int        `json:"key_count"`
}

// --------------------------------------------------------------------------
// KeyedStore Interface
// --------------------------------------------------------------------------

// EngineFactory is a function type that creates a new keyed store.
// It is used to abstract engine construction from the code using the store.
type EngineFactory func() KeyedStore

// KeyedStore is the interface for a store of isolated key-value namespaces.
// Keys are caller-hashed fixed-width digests; the store treats them as opaque
// bytes. No ordering, transactional or durability guarantees are made beyond
// a write being visible to the next read.
type KeyedStore interface {
	// GetRaw returns the value stored under the hashed key within the
	// namespace. The boolean return value indicates whether the key exists.
	GetRaw(ns NamespaceID, hashedKey []byte) (value []byte, loaded bool)

	// PutRaw inserts or overwrites the value stored under the hashed key
	// within the namespace.
	PutRaw(ns NamespaceID, hashedKey []byte, value []byte)

	// Delete removes the entry stored under the hashed key within the
	// namespace. Deleting a missing key is a no-op.
	Delete(ns NamespaceID, hashedKey []byte)

	// DropKeys removes up to max keys from the namespace and reports whether
	// any keys remain afterwards. The order of removal is unspecified.
	// A max of zero removes nothing.
	DropKeys(ns NamespaceID, max uint64) DropOutcome

	// Info returns best-effort statistics about the store.
	Info() EngineInfo

	// Close releases the resources held by the store.
	Close() error
}
