// Package sqlite provides SQLite implementations of the storage interfaces
// defined in internal/store, for single-node and local deployments.
//
// Timestamps are stored as fixed-width UTC text so that lexical order matches
// chronological order, and tags are stored as a JSON array.
package sqlite
