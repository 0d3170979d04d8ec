package contracts

import (
	"github.com/quietbit/cellar/lib/store"
)

// deletedNamespace is one deletion queue entry: an orphaned namespace and
// the number of pairs still to be physically removed from it.
type deletedNamespace struct {
	namespaceID        store.NamespaceID
	remainingPairCount uint64
}

// QueueForDeletion pushes a destroyed contract's namespace onto the deletion
// queue for lazy removal.
//
// Caller contract: the contract's record must already have been removed from
// the record table - the queue holds only orphaned namespaces. Fails with
// ErrDeletionQueueFull when the queue is at its configured depth; the entry
// is not enqueued and the caller decides how to apply backpressure.
func (e *Engine) QueueForDeletion(record *AliveRecord) error {
	queue, err := e.loadQueue()
	if err != nil {
		return err
	}
	if uint64(len(queue)) >= e.queueDepth {
		return ErrDeletionQueueFull
	}

	e.storeQueue(append(queue, deletedNamespace{
		namespaceID:        record.NamespaceID,
		remainingPairCount: record.TotalPairCount,
	}))
	return nil
}

// QueueLen returns the number of namespaces currently queued for deletion.
func (e *Engine) QueueLen() int {
	queue, err := e.loadQueue()
	if err != nil {
		return 0
	}
	return len(queue)
}

// --------------------------------------------------------------------------
// Queue persistence
// --------------------------------------------------------------------------

func (e *Engine) loadQueue() ([]deletedNamespace, error) {
	data, loaded := e.store.GetRaw(metaNamespace, []byte(metaKeyQueue))
	if !loaded {
		return nil, nil
	}

	queue, err := decodeQueue(data)
	if err != nil {
		// a corrupt queue cannot be repaired here, surface it
		e.log.Errorf("corrupt deletion queue: %s", err)
		return nil, err
	}
	return queue, nil
}

func (e *Engine) storeQueue(queue []deletedNamespace) {
	e.store.PutRaw(metaNamespace, []byte(metaKeyQueue), encodeQueue(queue))
}
