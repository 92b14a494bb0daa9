package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/prometheus/common/expfmt"

	"github.com/shardkv/shard/pkg/types"
	"github.com/shardkv/shard/server/internal/store"
	"github.com/shardkv/shard/server/internal/uptime"
)

// Identity reported by GET /health.
const (
	ServiceName = "shard"
	Version     = "0.1.0"
)

// kvPrefix marks the key-value route family. Every occurrence is stripped from
// the path to form the key, so /kv/a/kv/b addresses key "ab".
const kvPrefix = "/kv/"

// Fixed plain-text response bodies.
const (
	msgOK               = "OK"
	msgInvalidJSON      = "JSON Failed to validate"
	msgKeyNotFound      = "Key was not found"
	msgMethodNotAllowed = "Method not allowed!"
	msgNotFound         = "Not found!"
)

// Handler routes shard requests to the store and uptime tracker.
// Routing is done by hand rather than with http.ServeMux: the mux cleans paths
// and redirects, which would change which key a request addresses.
type Handler struct {
	store  *store.Store
	uptime *uptime.Tracker
}

// New creates a Handler wired to the given store and uptime tracker.
func New(st *store.Store, up *uptime.Tracker) http.Handler {
	return &Handler{store: st, uptime: up}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := RequestPath(r)

	switch {
	case path == "/health":
		h.health(w, r)
	case path == "/metrics":
		h.metrics(w, r)
	case strings.HasPrefix(path, kvPrefix):
		key := strings.ReplaceAll(path, kvPrefix, "")
		switch r.Method {
		case http.MethodPut:
			h.put(w, r, key)
		case http.MethodGet:
			h.get(w, key)
		default:
			textResp(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		}
	default:
		textResp(w, http.StatusNotFound, msgNotFound)
	}
}

// --- route handlers ---------------------------------------------------------

// health returns /health for any method — identity, uptime and key count.
func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	jsonResp(w, http.StatusOK, types.Health{
		Status:        types.StatusOK,
		Service:       ServiceName,
		Version:       Version,
		UptimeSeconds: h.uptime.Seconds(),
		Keys:          h.store.Len(),
	})
}

// metrics returns /metrics for any method — uptime and key count as
// "name value" lines.
func (h *Handler) metrics(w http.ResponseWriter, _ *http.Request) {
	body := fmt.Sprintf("%s %d\n%s %d\n",
		types.MetricUptimeSeconds, h.uptime.Seconds(),
		types.MetricKeys, h.store.Len(),
	)
	w.Header().Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, body) //nolint:errcheck
}

// put handles PUT /kv/{key}. The body is read and decoded before the store is
// touched, so a rejected request leaves any previous value in place.
func (h *Handler) put(w http.ResponseWriter, r *http.Request, key string) {
	value, err := decodeValue(r.Body)
	if err != nil {
		textResp(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	h.store.Put(key, value)
	textResp(w, http.StatusOK, msgOK)
}

// get handles GET /kv/{key}.
func (h *Handler) get(w http.ResponseWriter, key string) {
	value, ok := h.store.Get(key)
	if !ok {
		textResp(w, http.StatusNotFound, msgKeyNotFound)
		return
	}
	jsonResp(w, http.StatusOK, types.Value{Value: value})
}

// --- helpers ----------------------------------------------------------------

// jsonResp writes v as compact JSON with no trailing newline. HTML characters
// in stored values are written as-is rather than \u-escaped.
func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		textResp(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))) //nolint:errcheck
}

func textResp(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	io.WriteString(w, msg) //nolint:errcheck
}
