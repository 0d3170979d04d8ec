package testing

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/quietbit/cellar/lib/store"
)

// EngineFactory is a function that creates a new instance of a KeyedStore implementation
type EngineFactory func() store.KeyedStore

// RunKeyedStoreTests runs a conformance test suite for a KeyedStore implementation.
func RunKeyedStoreTests(t *testing.T, name string, factory EngineFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Put&Get", func(t *testing.T) {
			testPutGet(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("NamespaceIsolation", func(t *testing.T) {
			testNamespaceIsolation(t, factory())
		})

		t.Run("EmptyValue", func(t *testing.T) {
			testEmptyValue(t, factory())
		})

		t.Run("DropKeysBounded", func(t *testing.T) {
			testDropKeysBounded(t, factory())
		})

		t.Run("DropKeysHugeBudget", func(t *testing.T) {
			testDropKeysHugeBudget(t, factory())
		})

		t.Run("DropKeysEmptyNamespace", func(t *testing.T) {
			testDropKeysEmptyNamespace(t, factory())
		})

		t.Run("ValueIsolation", func(t *testing.T) {
			testValueIsolation(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func nsID(b byte) store.NamespaceID {
	var ns store.NamespaceID
	for i := range ns {
		ns[i] = b
	}
	return ns
}

func hashed(i int) []byte {
	key := make([]byte, 32)
	copy(key, fmt.Sprintf("hashed-key-%08d", i))
	return key
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testPutGet(t *testing.T, s store.KeyedStore) {
	defer s.Close()

	ns := nsID(1)
	value1 := []byte("value-1")
	value2 := []byte("value-2")

	s.PutRaw(ns, hashed(0), value1)

	result, loaded := s.GetRaw(ns, hashed(0))
	if !loaded {
		t.Fatalf("expected key to exist after PutRaw")
	}
	if !bytes.Equal(result, value1) {
		t.Errorf("expected value %q, got %q", value1, result)
	}

	// overwrite
	s.PutRaw(ns, hashed(0), value2)
	result, loaded = s.GetRaw(ns, hashed(0))
	if !loaded {
		t.Fatalf("expected key to exist after overwrite")
	}
	if !bytes.Equal(result, value2) {
		t.Errorf("expected value %q, got %q", value2, result)
	}

	if _, loaded = s.GetRaw(ns, hashed(99)); loaded {
		t.Errorf("expected missing key to return loaded=false")
	}
}

func testDelete(t *testing.T, s store.KeyedStore) {
	defer s.Close()

	ns := nsID(1)
	s.PutRaw(ns, hashed(0), []byte("value"))
	s.Delete(ns, hashed(0))

	if _, loaded := s.GetRaw(ns, hashed(0)); loaded {
		t.Errorf("expected key to be gone after Delete")
	}

	// deleting a missing key must not panic or create anything
	s.Delete(ns, hashed(1))
	if _, loaded := s.GetRaw(ns, hashed(1)); loaded {
		t.Errorf("Delete of a missing key must not create an entry")
	}
}

func testNamespaceIsolation(t *testing.T, s store.KeyedStore) {
	defer s.Close()

	nsA := nsID(1)
	nsB := nsID(2)

	s.PutRaw(nsA, hashed(0), []byte("a"))
	s.PutRaw(nsB, hashed(0), []byte("b"))

	valueA, _ := s.GetRaw(nsA, hashed(0))
	valueB, _ := s.GetRaw(nsB, hashed(0))
	if !bytes.Equal(valueA, []byte("a")) || !bytes.Equal(valueB, []byte("b")) {
		t.Fatalf("namespaces are not isolated: got %q / %q", valueA, valueB)
	}

	// dropping one namespace must not touch the other
	if outcome := s.DropKeys(nsA, 100); outcome != store.DropAllRemoved {
		t.Errorf("expected DropAllRemoved, got %v", outcome)
	}
	if _, loaded := s.GetRaw(nsB, hashed(0)); !loaded {
		t.Errorf("DropKeys on one namespace removed keys from another")
	}
}

func testEmptyValue(t *testing.T, s store.KeyedStore) {
	defer s.Close()

	ns := nsID(1)
	s.PutRaw(ns, hashed(0), []byte{})

	result, loaded := s.GetRaw(ns, hashed(0))
	if !loaded {
		t.Fatalf("expected empty value to be stored")
	}
	if len(result) != 0 {
		t.Errorf("expected zero-length value, got %d bytes", len(result))
	}
}

func testDropKeysBounded(t *testing.T, s store.KeyedStore) {
	defer s.Close()

	ns := nsID(1)
	const total = 12

	for i := 0; i < total; i++ {
		s.PutRaw(ns, hashed(i), []byte("value"))
	}

	// removing fewer keys than stored must report remaining keys
	if outcome := s.DropKeys(ns, 5); outcome != store.DropSomeRemaining {
		t.Fatalf("expected DropSomeRemaining, got %v", outcome)
	}

	remaining := 0
	for i := 0; i < total; i++ {
		if _, loaded := s.GetRaw(ns, hashed(i)); loaded {
			remaining++
		}
	}
	if remaining != total-5 {
		t.Errorf("expected %d keys remaining, got %d", total-5, remaining)
	}

	// a zero budget removes nothing
	if outcome := s.DropKeys(ns, 0); outcome != store.DropSomeRemaining {
		t.Errorf("expected DropSomeRemaining for zero budget, got %v", outcome)
	}

	// a large enough budget empties the namespace
	if outcome := s.DropKeys(ns, total); outcome != store.DropAllRemoved {
		t.Errorf("expected DropAllRemoved, got %v", outcome)
	}
	for i := 0; i < total; i++ {
		if _, loaded := s.GetRaw(ns, hashed(i)); loaded {
			t.Fatalf("key %d still present after full drop", i)
		}
	}
}

func testDropKeysHugeBudget(t *testing.T, s store.KeyedStore) {
	defer s.Close()

	ns := nsID(1)
	const total = 8

	for i := 0; i < total; i++ {
		s.PutRaw(ns, hashed(i), []byte("value"))
	}

	// a budget far beyond the namespace size must empty it, not fail
	if outcome := s.DropKeys(ns, math.MaxUint64); outcome != store.DropAllRemoved {
		t.Fatalf("expected DropAllRemoved, got %v", outcome)
	}
	for i := 0; i < total; i++ {
		if _, loaded := s.GetRaw(ns, hashed(i)); loaded {
			t.Fatalf("key %d still present after full drop", i)
		}
	}
}

func testDropKeysEmptyNamespace(t *testing.T, s store.KeyedStore) {
	defer s.Close()

	if outcome := s.DropKeys(nsID(42), 10); outcome != store.DropAllRemoved {
		t.Errorf("expected DropAllRemoved for unknown namespace, got %v", outcome)
	}
}

func testValueIsolation(t *testing.T, s store.KeyedStore) {
	defer s.Close()

	ns := nsID(1)
	value := []byte("original")
	s.PutRaw(ns, hashed(0), value)

	// mutating the written slice must not affect the stored value
	value[0] = 'X'

	result, _ := s.GetRaw(ns, hashed(0))
	if !bytes.Equal(result, []byte("original")) {
		t.Errorf("stored value was corrupted by caller mutation: %q", result)
	}

	// mutating the returned slice must not affect the stored value
	result[0] = 'Y'
	result2, _ := s.GetRaw(ns, hashed(0))
	if !bytes.Equal(result2, []byte("original")) {
		t.Errorf("stored value was corrupted by reader mutation: %q", result2)
	}
}
