package contracts

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/quietbit/cellar/lib/store"
)

// GenerateNamespaceID derives a fresh namespace id for a contract of the
// given account by hashing the account bytes together with a persisted
// counter value.
//
// The counter only adds entropy: skipped or out-of-order values are fine,
// non-repetition is all that matters. It wraps on overflow.
func (e *Engine) GenerateNamespaceID(account AccountID) store.NamespaceID {
	counter := e.loadCounter() + 1 // wraps on overflow
	e.storeCounter(counter)

	buf := make([]byte, 0, len(account)+8)
	buf = append(buf, account[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, counter)
	return store.NamespaceID(blake2b.Sum256(buf))
}

// --------------------------------------------------------------------------
// Counter persistence
// --------------------------------------------------------------------------

func (e *Engine) loadCounter() uint64 {
	data, loaded := e.store.GetRaw(metaNamespace, []byte(metaKeyCounter))
	if !loaded {
		return 0
	}
	return decodeCounter(data)
}

func (e *Engine) storeCounter(counter uint64) {
	e.store.PutRaw(metaNamespace, []byte(metaKeyCounter), encodeCounter(counter))
}
