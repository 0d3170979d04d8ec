package testing

import (
	"math/rand"
	"testing"

	"github.com/quietbit/cellar/lib/store"
)

// RunKeyedStoreBenchmarks runs all benchmarks for a KeyedStore implementation
func RunKeyedStoreBenchmarks(b *testing.B, name string, factory EngineFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Put", func(b *testing.B) {
			benchmarkPut(b, factory())
		})

		b.Run("Get", func(b *testing.B) {
			benchmarkGet(b, factory())
		})

		b.Run("Get(missing)", func(b *testing.B) {
			benchmarkGetMissing(b, factory())
		})

		b.Run("DropKeys", func(b *testing.B) {
			benchmarkDropKeys(b, factory())
		})
	})
}

const benchKeySpread = 1 << 12

func benchValue() []byte {
	value := make([]byte, 128)
	rand.Read(value)
	return value
}

func benchmarkPut(b *testing.B, s store.KeyedStore) {
	defer s.Close()

	ns := nsID(1)
	value := benchValue()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.PutRaw(ns, hashed(i%benchKeySpread), value)
	}
}

func benchmarkGet(b *testing.B, s store.KeyedStore) {
	defer s.Close()

	ns := nsID(1)
	value := benchValue()
	for i := 0; i < benchKeySpread; i++ {
		s.PutRaw(ns, hashed(i), value)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.GetRaw(ns, hashed(i%benchKeySpread))
	}
}

func benchmarkGetMissing(b *testing.B, s store.KeyedStore) {
	defer s.Close()

	ns := nsID(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.GetRaw(ns, hashed(i%benchKeySpread))
	}
}

func benchmarkDropKeys(b *testing.B, s store.KeyedStore) {
	defer s.Close()

	value := benchValue()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		ns := nsID(byte(i))
		for k := 0; k < 64; k++ {
			s.PutRaw(ns, hashed(k), value)
		}
		b.StartTimer()

		for s.DropKeys(ns, 16) == store.DropSomeRemaining {
		}
	}
}
