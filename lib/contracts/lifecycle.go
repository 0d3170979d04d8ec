package contracts

import (
	"math"

	"github.com/quietbit/cellar/lib/store"
)

// RentAllowance returns the rent allowance of the contract held by the
// account. Fails with ErrContractAbsent when the account holds no Alive
// record.
func (e *Engine) RentAllowance(account AccountID) (uint64, error) {
	record, ok := e.getRecord(account).(*AliveRecord)
	if !ok {
		return 0, ErrContractAbsent
	}
	return record.RentAllowance, nil
}

// SetRentAllowance sets the rent allowance of the contract held by the
// account. Fails with ErrContractAbsent when the account holds no Alive
// record.
func (e *Engine) SetRentAllowance(account AccountID, allowance uint64) error {
	record, ok := e.getRecord(account).(*AliveRecord)
	if !ok {
		return ErrContractAbsent
	}

	record.RentAllowance = allowance
	e.putRecord(account, record)
	return nil
}

// PlaceRecord creates the record of a new contract at the given account.
//
// Fails with ErrContractAlreadyExists when any record, Alive or Tombstoned,
// already occupies the account; an existing record is never overwritten.
// Counters start at zero, the rent allowance at the maximum representable
// value and the last-write marker unset.
func (e *Engine) PlaceRecord(account AccountID, ns store.NamespaceID, codeRef CodeRef) error {
	if e.getRecord(account) != nil {
		return ErrContractAlreadyExists
	}

	e.putRecord(account, &AliveRecord{
		CodeRef:       codeRef,
		NamespaceID:   ns,
		DeductTick:    e.ticks.CurrentTick(),
		RentAllowance: math.MaxUint64,
	})
	return nil
}

// CodeRefOf returns the code reference of the contract held by the account.
// Diagnostic accessor.
func (e *Engine) CodeRefOf(account AccountID) (CodeRef, error) {
	record, ok := e.getRecord(account).(*AliveRecord)
	if !ok {
		return CodeRef{}, ErrContractAbsent
	}
	return record.CodeRef, nil
}

// DestroyRecord removes the Alive record of the account and hands its
// namespace to the deletion queue for lazy removal.
//
// Fails with ErrContractAbsent when the account holds no Alive record and
// with ErrDeletionQueueFull when the queue is at capacity; in both cases
// nothing changes, so callers can apply backpressure and retry the
// destruction later.
func (e *Engine) DestroyRecord(account AccountID) error {
	record, ok := e.getRecord(account).(*AliveRecord)
	if !ok {
		return ErrContractAbsent
	}

	queue, err := e.loadQueue()
	if err != nil {
		return err
	}
	if uint64(len(queue)) >= e.queueDepth {
		return ErrDeletionQueueFull
	}

	// The record leaves the table before its namespace enters the queue;
	// the queue holds only orphaned namespaces.
	e.deleteRecord(account)
	e.storeQueue(append(queue, deletedNamespace{
		namespaceID:        record.NamespaceID,
		remainingPairCount: record.TotalPairCount,
	}))
	return nil
}

// TombstoneRecord replaces the Alive record of the account with a terminal
// Tombstone retaining only the given content commitment, and hands the
// namespace to the deletion queue. Error semantics match DestroyRecord.
func (e *Engine) TombstoneRecord(account AccountID, commitment [32]byte) error {
	record, ok := e.getRecord(account).(*AliveRecord)
	if !ok {
		return ErrContractAbsent
	}

	queue, err := e.loadQueue()
	if err != nil {
		return err
	}
	if uint64(len(queue)) >= e.queueDepth {
		return ErrDeletionQueueFull
	}

	e.putRecord(account, &Tombstone{Commitment: commitment})
	e.storeQueue(append(queue, deletedNamespace{
		namespaceID:        record.NamespaceID,
		remainingPairCount: record.TotalPairCount,
	}))
	return nil
}
