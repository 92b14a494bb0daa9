// Package store holds the shard's key-value data in memory. It provides a
// thread-safe map from text keys to text values with no expiry and no delete:
// once written, a key stays present for the life of the process.
package store
