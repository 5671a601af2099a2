// Package core defines the shared language of sitecounts.
//
// This package contains:
//   - Domain entities (ContentType, Entry, StatusCounts)
//   - The ContentStore interface blocks read from
//   - Request-scoped values (the entry being viewed)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
