// Package testing provides standardised tests and benchmarks for keyed-store
// engines that satisfy the store.KeyedStore interface.
//
// The package contains:
//   - testing: A conformance suite validating the KeyedStore interface contract
//   - benchmark: Performance tests for common store operations
//
// Example usage:
//
//	// Creating a factory function for your engine
//	factory := func() store.KeyedStore {
//		return NewMyEngine()
//	}
//
//	// Running the standard test suite
//	func Test(t *testing.T) {
//		storetesting.RunKeyedStoreTests(t, "MyEngine", factory)
//	}
package testing
