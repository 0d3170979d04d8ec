package contracts

import (
	"encoding/hex"

	"github.com/quietbit/cellar/lib/store"
)

// --------------------------------------------------------------------------
// Identity Types
// --------------------------------------------------------------------------

// AccountID is the canonical byte representation of an account.
type AccountID [32]byte

// String returns a short hex form for logging and diagnostics.
func (a AccountID) String() string {
	return hex.EncodeToString(a[:8])
}

// CodeRef is an opaque handle to the executable code of a contract.
// The engine stores it but never dereferences it.
type CodeRef [32]byte

// --------------------------------------------------------------------------
// Record States
// --------------------------------------------------------------------------

// Record is the closed set of states an account's record can be in. The
// absent state is represented by a nil Record; the two non-absent states are
// *AliveRecord and *Tombstone. Code inspecting a Record must switch over all
// three cases.
type Record interface {
	isRecord()
}

// AliveRecord describes a live contract and its storage bookkeeping.
type AliveRecord struct {
	// CodeRef is the handle to the contract's code.
	CodeRef CodeRef
	// NamespaceID identifies the contract's storage namespace.
	// Immutable after creation.
	NamespaceID store.NamespaceID
	// StorageSize is the total byte size of all stored values,
	// maintained incrementally with saturating arithmetic.
	StorageSize uint64
	// TotalPairCount is the number of distinct keys currently stored,
	// including keys holding a zero-length value.
	TotalPairCount uint64
	// EmptyPairCount is the subset of TotalPairCount whose value has
	// zero length.
	EmptyPairCount uint64
	// DeductTick is the tick at which resource deduction was last applied.
	// Set at creation, mutated only by external collaborators.
	DeductTick uint64
	// RentAllowance is the budget external collaborators may still deduct.
	RentAllowance uint64
	// LastWrite is the tick of the most recent mutation, valid only when
	// HasLastWrite is true.
	LastWrite    uint64
	HasLastWrite bool
}

// Tombstone is the terminal marker left behind by an evicted contract.
// It retains only a commitment to the contract's final state.
type Tombstone struct {
	Commitment [32]byte
}

func (*AliveRecord) isRecord() {}
func (*Tombstone) isRecord()   {}
