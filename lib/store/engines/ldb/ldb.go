package ldb

import (
	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/quietbit/cellar/lib/store"
)

// ldbStore implements store.KeyedStore on top of a single leveldb database
type ldbStore struct {
	db *leveldb.DB
}

// NewLevelDBStore opens (or creates) a leveldb database at path and wraps it
// as a keyed store.
//
// Thread-safety: the returned store is safe for concurrent use, goleveldb
// serialises writes internally.
func NewLevelDBStore(path string) (store.KeyedStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &ldbStore{db: db}, nil
}

// storageKey builds the physical key: namespace id followed by the hashed key
func storageKey(ns store.NamespaceID, hashedKey []byte) []byte {
	key := make([]byte, 0, len(ns)+len(hashedKey))
	key = append(key, ns[:]...)
	key = append(key, hashedKey...)
	return key
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *ldbStore) GetRaw(ns store.NamespaceID, hashedKey []byte) ([]byte, bool) {
	value, err := s.db.Get(storageKey(ns, hashedKey), nil)
	if err != nil {
		// leveldb.ErrNotFound and any read failure both surface as a miss,
		// the interface makes no durability promises
		return nil, false
	}
	return value, true
}

func (s *ldbStore) PutRaw(ns store.NamespaceID, hashedKey []byte, value []byte) {
	_ = s.db.Put(storageKey(ns, hashedKey), value, nil)
}

func (s *ldbStore) Delete(ns store.NamespaceID, hashedKey []byte) {
	_ = s.db.Delete(storageKey(ns, hashedKey), nil)
}

func (s *ldbStore) DropKeys(ns store.NamespaceID, max uint64) store.DropOutcome {
	iter := s.db.NewIterator(ldb_util.BytesPrefix(ns[:]), nil)
	defer iter.Release()

	batch := new(leveldb.Batch)
	var removed uint64
	outcome := store.DropAllRemoved

	for iter.Next() {
		if removed >= max {
			// limit reached with at least one key left behind
			outcome = store.DropSomeRemaining
			break
		}
		key := make([]byte, len(iter.Key()))
		copy(key, iter.Key())
		batch.Delete(key)
		removed++
	}

	if batch.Len() > 0 {
		_ = s.db.Write(batch, nil)
	}
	return outcome
}

func (s *ldbStore) Info() store.EngineInfo {
	namespaces := 0
	keys := 0

	// full scan, acceptable for a diagnostics call
	var current store.NamespaceID
	first := true

	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		key := iter.Key()
		if len(key) < len(current) {
			continue
		}
		var ns store.NamespaceID
		copy(ns[:], key[:len(ns)])
		if first || ns != current {
			namespaces++
			current = ns
			first = false
		}
		keys++
	}

	return store.EngineInfo{
		Engine:         store.EngineLdb,
		NamespaceCount: namespaces,
		KeyCount:       keys,
	}
}

func (s *ldbStore) Close() error {
	return s.db.Close()
}
