// Package mem implements an in-memory keyed store with namespace isolation.
// It provides a complete implementation of the store.KeyedStore interface with
// a focus on thread safety and predictable incremental removal.
//
// The package focuses on:
//   - Optimized concurrent access through lock-free concurrent maps
//   - Cheap namespace-scoped operations without a shared key index
//   - Bounded namespace draining for budgeted background deletion
//
// Key Components:
//
//   - memStore: The central structure implementing store.KeyedStore. It holds
//     one concurrent map of namespaces; each namespace in turn holds its own
//     concurrent map of entries keyed by the caller-hashed key bytes. Because
//     namespaces never share a map, dropping keys from one namespace cannot
//     contend with reads and writes against another.
//
//   - namespace: A partition of the store holding the entries of exactly one
//     NamespaceID. Namespaces are created lazily on the first write and
//     removed again once DropKeys has emptied them.
//
// Values are copied on both write and read so callers can never corrupt
// stored data by mutating a returned or previously passed slice.
package mem
