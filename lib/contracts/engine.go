package contracts

import (
	"fmt"

	"github.com/bitmark-inc/logger"
	"golang.org/x/crypto/blake2b"

	"github.com/quietbit/cellar/lib/store"
)

// --------------------------------------------------------------------------
// Collaborator Interfaces
// --------------------------------------------------------------------------

// TickSource reports the current scheduling tick of the host system
// (e.g. the current block number). The value must be monotonically
// non-decreasing.
type TickSource interface {
	CurrentTick() uint64
}

// TickFunc adapts a plain function to the TickSource interface.
type TickFunc func() uint64

func (f TickFunc) CurrentTick() uint64 { return f() }

// Costs is the resource cost table calibrated by the host. It carries the
// four calibration constants used by ProcessBatch; the per-item and per-key
// costs are the marginal difference between the one-element and zero-element
// calibration points.
type Costs struct {
	// Base is the fixed overhead of one ProcessBatch invocation.
	Base uint64
	// QueueItemZero and QueueItemOne are the invocation costs measured with
	// zero and one queued namespaces.
	QueueItemZero uint64
	QueueItemOne  uint64
	// KeyZero and KeyOne are the invocation costs measured removing zero and
	// one keys.
	KeyZero uint64
	KeyOne  uint64
}

func (c Costs) perQueueItem() uint64 {
	return satSub(c.QueueItemOne, c.QueueItemZero)
}

func (c Costs) perKey() uint64 {
	return satSub(c.KeyOne, c.KeyZero)
}

// --------------------------------------------------------------------------
// Engine
// --------------------------------------------------------------------------

// Config carries the explicit collaborators of an Engine. All fields except
// QueueDepth are required.
type Config struct {
	// Store is the keyed store holding contract namespaces and the
	// engine's persisted meta state.
	Store store.KeyedStore
	// Ticks reports the current scheduling tick.
	Ticks TickSource
	// Costs is the calibrated resource cost table.
	Costs Costs
	// QueueDepth bounds the deletion queue backlog.
	QueueDepth uint64
	// Log receives warnings from the batch deletion processor. The global
	// logger must have been initialised by the host.
	Log *logger.L
}

// Engine implements storage accounting and lazy deletion for contracts.
// One Engine instance owns the record table, deletion queue and namespace
// counter persisted in its store; its lifecycle is tied to the enclosing
// runtime.
//
// Concurrency: Engine methods must be called from a single logical actor,
// see the package documentation.
type Engine struct {
	store      store.KeyedStore
	ticks      TickSource
	costs      Costs
	queueDepth uint64
	log        *logger.L
}

// NewEngine validates the configuration and creates an Engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("contracts: config is missing the keyed store")
	}
	if cfg.Ticks == nil {
		return nil, fmt.Errorf("contracts: config is missing the tick source")
	}
	if cfg.Log == nil {
		return nil, fmt.Errorf("contracts: config is missing the logger")
	}

	return &Engine{
		store:      cfg.Store,
		ticks:      cfg.Ticks,
		costs:      cfg.Costs,
		queueDepth: cfg.QueueDepth,
		log:        cfg.Log,
	}, nil
}

// --------------------------------------------------------------------------
// Persisted meta state
// --------------------------------------------------------------------------

// metaNamespace is the reserved namespace holding the record table, the
// deletion queue and the namespace counter. Generated namespace ids are
// blake2b digests over account-bound input, so a collision with this fixed
// id is not a practical concern.
var metaNamespace = store.NamespaceID(blake2b.Sum256([]byte("cellar/meta/v1")))

const (
	metaRecordPrefix = "r:"
	metaKeyQueue     = "q:deletion-queue"
	metaKeyCounter   = "c:namespace-counter"
)

func recordKey(account AccountID) []byte {
	key := make([]byte, 0, len(metaRecordPrefix)+len(account))
	key = append(key, metaRecordPrefix...)
	key = append(key, account[:]...)
	return key
}

// getRecord returns the record of the account, nil when the account is
// Absent. A record that fails to decode is reported and treated as Absent.
func (e *Engine) getRecord(account AccountID) Record {
	data, loaded := e.store.GetRaw(metaNamespace, recordKey(account))
	if !loaded {
		return nil
	}

	record, err := decodeRecord(data)
	if err != nil {
		e.log.Errorf("corrupt record for account %s: %s", account, err)
		return nil
	}
	return record
}

func (e *Engine) putRecord(account AccountID, record Record) {
	e.store.PutRaw(metaNamespace, recordKey(account), encodeRecord(record))
}

func (e *Engine) deleteRecord(account AccountID) {
	e.store.Delete(metaNamespace, recordKey(account))
}

// --------------------------------------------------------------------------
// Key addressing
// --------------------------------------------------------------------------

// hashKey derives the fixed-width storage address of a caller-supplied key.
// Hashing bounds the physical key length and keeps the namespace layout
// independent of key structure.
func hashKey(key []byte) [32]byte {
	return blake2b.Sum256(key)
}
