// Package api implements the HTTP surface of the shard.
//
// New(store, uptime) returns an http.Handler that serves:
//
//	ANY /health     — {"status","service","version","uptime_seconds","keys"}
//	ANY /metrics    — "shard_uptime_seconds <n>\nshard_keys <n>\n"
//	PUT /kv/{key}   — body {"value": "..."}; 200 "OK" or 400 "JSON Failed to validate"
//	GET /kv/{key}   — 200 {"value": "..."} or 404 "Key was not found"
//	    /kv/{key}   — any other method: 405 "Method not allowed!"
//	anything else   — 404 "Not found!"
//
// The key is the raw request path (RequestPath) with every "/kv/" removed. It
// is not decoded, re-escaped or validated; empty keys and keys containing "/"
// are accepted.
//
// A PUT body must be a JSON object whose field named exactly "value" appears
// once and holds a string. Case variants of the name do not count, and
// duplicates are rejected.
//
// Only PUT mutates the store. Uptime and key count are read live on every
// /health and /metrics call.
package api
