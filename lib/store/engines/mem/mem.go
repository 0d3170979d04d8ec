package mem

import (
	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/quietbit/cellar/lib/store"
)

// --------------------------------------------------------------------------
// Metrics
// --------------------------------------------------------------------------

var (
	metricPuts    = metrics.NewCounter("cellar_mem_puts_total")
	metricDeletes = metrics.NewCounter("cellar_mem_deletes_total")
	metricDropped = metrics.NewCounter("cellar_mem_dropped_keys_total")
)

// --------------------------------------------------------------------------
// Core structures
// --------------------------------------------------------------------------

// namespace holds the entries of exactly one NamespaceID.
// Entries are keyed by the raw bytes of the caller-hashed key.
type namespace struct {
	entries *xsync.MapOf[string, []byte]
}

func newNamespace() *namespace {
	return &namespace{
		entries: xsync.NewMapOf[string, []byte](),
	}
}

// memStore implements store.KeyedStore backed by concurrent maps
type memStore struct {
	namespaces *xsync.MapOf[store.NamespaceID, *namespace]
}

// NewMemStore creates a new in-memory keyed store.
//
// Thread-safety: the returned store is safe for concurrent use; every method
// may be called from multiple goroutines.
func NewMemStore() store.KeyedStore {
	return &memStore{
		namespaces: xsync.NewMapOf[store.NamespaceID, *namespace](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *memStore) GetRaw(ns store.NamespaceID, hashedKey []byte) ([]byte, bool) {
	n, ok := s.namespaces.Load(ns)
	if !ok {
		return nil, false
	}

	value, ok := n.entries.Load(string(hashedKey))
	if !ok {
		return nil, false
	}

	// Copy value to prevent memory corruption
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	return valueCopy, true
}

func (s *memStore) PutRaw(ns store.NamespaceID, hashedKey []byte, value []byte) {
	n, _ := s.namespaces.LoadOrCompute(ns, newNamespace)

	// Copy value to prevent memory corruption
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	n.entries.Store(string(hashedKey), valueCopy)
	metricPuts.Inc()
}

func (s *memStore) Delete(ns store.NamespaceID, hashedKey []byte) {
	n, ok := s.namespaces.Load(ns)
	if !ok {
		return
	}

	n.entries.Delete(string(hashedKey))
	metricDeletes.Inc()
}

func (s *memStore) DropKeys(ns store.NamespaceID, max uint64) store.DropOutcome {
	n, ok := s.namespaces.Load(ns)
	if !ok {
		return store.DropAllRemoved
	}

	// Collect up to max keys first, then delete. Deleting inside Range is
	// allowed by xsync but collecting keeps the removal count exact.
	var removed uint64
	if max > 0 {
		// The budget may be far larger than the namespace, size the
		// collection by whichever is smaller.
		keys := make([]string, 0, min(max, uint64(n.entries.Size())))
		n.entries.Range(func(key string, _ []byte) bool {
			keys = append(keys, key)
			return uint64(len(keys)) < max
		})

		for _, key := range keys {
			n.entries.Delete(key)
		}
		removed = uint64(len(keys))
		metricDropped.Add(int(removed))
	}

	if n.entries.Size() > 0 {
		return store.DropSomeRemaining
	}

	// The namespace is empty, drop the map itself as well.
	s.namespaces.Delete(ns)
	return store.DropAllRemoved
}

func (s *memStore) Info() store.EngineInfo {
	keyCount := 0
	s.namespaces.Range(func(_ store.NamespaceID, n *namespace) bool {
		keyCount += n.entries.Size()
		return true
	})

	return store.EngineInfo{
		Engine:         store.EngineMem,
		NamespaceCount: s.namespaces.Size(),
		KeyCount:       keyCount,
	}
}

func (s *memStore) Close() error {
	return nil
}
