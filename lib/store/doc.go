// Package store defines the keyed-store collaborator interface consumed by the
// contracts engine. A keyed store manages isolated key-value namespaces: every
// entry is addressed by a (namespace, hashed key) pair and a whole namespace
// can be drained incrementally with a bounded per-call removal limit.
//
// The package contains only the interface and its shared types. Concrete
// engines live in the engines/ subdirectory:
//
//   - engines/mem: in-memory engine built on concurrent maps
//   - engines/ldb: persistent engine built on goleveldb
//
// A reusable conformance test suite for engine implementations is provided in
// the testing/ subdirectory.
package store
