package contracts

import (
	"github.com/quietbit/cellar/lib/store"
)

// Read looks up a key within a contract's namespace.
//
// The lookup is addressed by the namespace id alone; no record is consulted
// and no bookkeeping is touched. The boolean return value indicates whether
// the key exists.
func (e *Engine) Read(ns store.NamespaceID, key []byte) ([]byte, bool) {
	hashedKey := hashKey(key)
	return e.store.GetRaw(ns, hashedKey[:])
}

// Write updates a key-value entry in a contract's namespace and keeps the
// account's bookkeeping record exact. A nil value removes the entry; a
// non-nil empty value stores a zero-length entry and counts as an empty
// pair.
//
// The account must hold an Alive record, otherwise ErrContractAbsent is
// returned and nothing changes. The updated record is persisted before the
// physical entry mutation so the bookkeeping commit precedes the data
// change; relative to the tick boundary the whole operation is one atomic
// step (see the package documentation).
func (e *Engine) Write(account AccountID, ns store.NamespaceID, key []byte, value []byte) error {
	record, ok := e.getRecord(account).(*AliveRecord)
	if !ok {
		// Absent or Tombstoned
		return ErrContractAbsent
	}

	hashedKey := hashKey(key)

	// The previous value is fetched only to learn its presence and length.
	// An extra read per write is acceptable: the traversal of the namespace
	// dominates the cost either way.
	prevValue, prevPresent := e.store.GetRaw(ns, hashedKey[:])
	newPresent := value != nil

	// Update the total number of pairs and the number of empty pairs.
	switch {
	case prevPresent && !newPresent:
		record.TotalPairCount--
		if len(prevValue) == 0 {
			record.EmptyPairCount--
		}

	case !prevPresent && newPresent:
		record.TotalPairCount++
		if len(value) == 0 {
			record.EmptyPairCount++
		}

	case prevPresent && newPresent:
		if len(prevValue) == 0 {
			record.EmptyPairCount--
		}
		if len(value) == 0 {
			record.EmptyPairCount++
		}
	}

	// Update the total storage size.
	record.StorageSize = satSub(satAdd(record.StorageSize, uint64(len(value))), uint64(len(prevValue)))

	record.LastWrite = e.ticks.CurrentTick()
	record.HasLastWrite = true
	e.putRecord(account, record)

	// Finally, perform the change on the storage.
	if newPresent {
		e.store.PutRaw(ns, hashedKey[:], value)
	} else {
		e.store.Delete(ns, hashedKey[:])
	}

	return nil
}
