// Package types defines the wire payloads and metric names shared by the
// shard server and its Go client.
package types
