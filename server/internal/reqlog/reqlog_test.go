package reqlog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newLogger returns a JSON logger writing into buf.
func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// records decodes every JSON log line in buf.
func records(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]interface{}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		out = append(out, rec)
	}
	return out
}

func TestMiddleware_LogsCompletedRequest(t *testing.T) {
	var buf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Key was not found")) //nolint:errcheck
	})
	h := Middleware(newLogger(&buf), next)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/kv/missing", nil))

	if rr.Code != http.StatusNotFound || rr.Body.String() != "Key was not found" {
		t.Fatalf("response altered: %d %q", rr.Code, rr.Body.String())
	}

	recs := records(t, &buf)
	if len(recs) != 1 {
		t.Fatalf("log records: got %d, want 1", len(recs))
	}
	rec := recs[0]
	if rec["msg"] != "request" {
		t.Errorf("msg: got %v, want request", rec["msg"])
	}
	if rec["method"] != "GET" {
		t.Errorf("method: got %v, want GET", rec["method"])
	}
	if rec["path"] != "/kv/missing" {
		t.Errorf("path: got %v, want /kv/missing", rec["path"])
	}
	if rec["status"].(float64) != 404 {
		t.Errorf("status: got %v, want 404", rec["status"])
	}
	if rec["bytes"].(float64) != float64(len("Key was not found")) {
		t.Errorf("bytes: got %v", rec["bytes"])
	}
	if _, ok := rec["elapsed"]; !ok {
		t.Error("elapsed missing")
	}
}

func TestMiddleware_ImplicitOK(t *testing.T) {
	var buf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK")) //nolint:errcheck
	})
	h := Middleware(newLogger(&buf), next)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/kv/a", nil))

	recs := records(t, &buf)
	if len(recs) != 1 || recs[0]["status"].(float64) != 200 {
		t.Errorf("records: got %v, want one with status 200", recs)
	}
}

func TestMiddleware_LogsRawPath(t *testing.T) {
	var buf bytes.Buffer
	h := Middleware(newLogger(&buf), http.NotFoundHandler())

	r := httptest.NewRequest(http.MethodGet, "/kv/x", nil)
	r.RequestURI = "/kv/caf\xc3\xa9?q=1"
	h.ServeHTTP(httptest.NewRecorder(), r)

	recs := records(t, &buf)
	if len(recs) != 1 || recs[0]["path"] != "/kv/caf\xc3\xa9" {
		t.Errorf("records: got %v, want path /kv/caf\xc3\xa9", recs)
	}
}

func TestMiddleware_FirstStatusWins(t *testing.T) {
	var buf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.WriteHeader(http.StatusOK) // superfluous, ignored by net/http
	})
	h := Middleware(newLogger(&buf), next)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/kv/a", nil))

	recs := records(t, &buf)
	if len(recs) != 1 || recs[0]["status"].(float64) != 400 {
		t.Errorf("records: got %v, want status 400", recs)
	}
}

func TestMiddleware_RecoversPanic(t *testing.T) {
	var buf bytes.Buffer
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	h := Middleware(newLogger(&buf), next)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/kv/a", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
	if rr.Body.String() != msgInternalError {
		t.Errorf("body: got %q", rr.Body.String())
	}

	recs := records(t, &buf)
	if len(recs) != 2 {
		t.Fatalf("log records: got %d, want 2 (panic + request)", len(recs))
	}
	if recs[0]["level"] != "ERROR" || recs[0]["panic"] != "boom" {
		t.Errorf("panic record: got %v", recs[0])
	}
	if recs[1]["msg"] != "request" || recs[1]["status"].(float64) != 500 {
		t.Errorf("request record: got %v", recs[1])
	}
}

func TestMiddleware_ReraisesAbortHandler(t *testing.T) {
	var buf bytes.Buffer
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	})
	h := Middleware(newLogger(&buf), next)

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Errorf("recover: got %v, want http.ErrAbortHandler", rec)
		}
		recs := records(t, &buf)
		if len(recs) != 1 {
			t.Fatalf("log records: got %d, want 1", len(recs))
		}
		if recs[0]["msg"] != "request" || recs[0]["aborted"] != true {
			t.Errorf("request record: got %v, want aborted request", recs[0])
		}
		if recs[0]["path"] != "/kv/a" {
			t.Errorf("path: got %v, want /kv/a", recs[0]["path"])
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/kv/a", nil))
	t.Fatal("expected panic to propagate")
}
