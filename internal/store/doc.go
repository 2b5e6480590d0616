// Package store defines interfaces for data persistence operations.
// Services depend on these interfaces rather than on a concrete database,
// so persistence can be swapped or mocked in tests.
package store
