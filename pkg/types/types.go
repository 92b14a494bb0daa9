package types

// Health status reported by a running shard.
const StatusOK = "ok"

// Metric names written by GET /metrics.
const (
	MetricUptimeSeconds = "shard_uptime_seconds"
	MetricKeys          = "shard_keys"
)

// Health is the payload for GET /health.
type Health struct {
	Status        string `json:"status"`
	Service       string `json:"service"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Keys          int    `json:"keys"`
}

// Value is the body of PUT /kv/{key} and the payload of GET /kv/{key}.
type Value struct {
	Value string `json:"value"`
}
