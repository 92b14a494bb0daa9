package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/shardkv/shard/pkg/types"
)

// Metrics is the parsed content of GET /metrics.
type Metrics struct {
	UptimeSeconds int64
	Keys          int
}

// Metrics fetches GET /metrics and parses the text exposition.
func (c *Client) Metrics(ctx context.Context) (*Metrics, error) {
	code, data, err := c.do(ctx, http.MethodGet, "/metrics", nil)
	if err != nil {
		return nil, fmt.Errorf("client metrics: %w", err)
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("client metrics: %w", statusErr(code))
	}

	mfs, err := parseMetrics(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("client metrics: %w", err)
	}
	up, ok := sampleValue(mfs[types.MetricUptimeSeconds])
	if !ok {
		return nil, fmt.Errorf("client metrics: %s missing", types.MetricUptimeSeconds)
	}
	keys, ok := sampleValue(mfs[types.MetricKeys])
	if !ok {
		return nil, fmt.Errorf("client metrics: %s missing", types.MetricKeys)
	}
	return &Metrics{UptimeSeconds: int64(up), Keys: int(keys)}, nil
}

// parseMetrics decodes a Prometheus text exposition from r into metric families.
func parseMetrics(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil {
		return nil, fmt.Errorf("parse exposition: %w", err)
	}
	return mfs, nil
}

// sampleValue returns the value of the first sample in mf, whatever its type.
// Reports false if mf is nil or has no samples.
func sampleValue(mf *dto.MetricFamily) (float64, bool) {
	if mf == nil || len(mf.GetMetric()) == 0 {
		return 0, false
	}
	m := mf.GetMetric()[0]
	switch {
	case m.Counter != nil:
		return m.Counter.GetValue(), true
	case m.Gauge != nil:
		return m.Gauge.GetValue(), true
	case m.Untyped != nil:
		return m.Untyped.GetValue(), true
	}
	return 0, false
}
