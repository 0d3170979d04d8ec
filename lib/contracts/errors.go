package contracts

// error classes - allows callers to match on the class or the instance

// AbsentError means the addressed account has no Alive record.
type AbsentError string

// ExistsError means record creation hit an existing record or tombstone.
type ExistsError string

// QueueError means the deletion queue rejected an entry.
type QueueError string

func (e AbsentError) Error() string { return string(e) }
func (e ExistsError) Error() string { return string(e) }
func (e QueueError) Error() string  { return string(e) }

// error instances - never retried internally, always surfaced to the caller
var (
	ErrContractAbsent        = AbsentError("contract is absent or tombstoned")
	ErrContractAlreadyExists = ExistsError("alive contract or tombstone already exists")
	ErrDeletionQueueFull     = QueueError("deletion queue is full")
)
