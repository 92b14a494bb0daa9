package reqlog

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"

	"github.com/shardkv/shard/server/internal/api"
)

const msgInternalError = "Internal server error"

// Middleware logs every request handled by next to logger.
func Middleware(logger *slog.Logger, next http.Handler) http.Handler {
	h := recoverer(logger, next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := &metrics{code: http.StatusOK}
		start := time.Now()

		// Deferred so a request aborted with http.ErrAbortHandler is still
		// logged before the panic reaches net/http.
		defer func() {
			p := recover()
			attrs := []any{
				"method", r.Method,
				"path", api.RequestPath(r),
				"status", m.code,
				"elapsed", time.Since(start),
				"bytes", m.written,
			}
			if p != nil {
				attrs = append(attrs, "aborted", true)
			}
			logger.Info("request", attrs...)
			if p != nil {
				panic(p)
			}
		}()

		h.ServeHTTP(m.wrap(w), r)
	})
}

// metrics records the status code and body size seen by a ResponseWriter.
type metrics struct {
	code        int
	written     int64
	wroteHeader bool
}

func (m *metrics) wrap(w http.ResponseWriter) http.ResponseWriter {
	return httpsnoop.Wrap(w, httpsnoop.Hooks{
		WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return func(code int) {
				next(code)
				if !m.wroteHeader {
					m.code = code
					m.wroteHeader = true
				}
			}
		},
		Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
			return func(b []byte) (int, error) {
				n, err := next(b)
				m.wroteHeader = true
				m.written += int64(n)
				return n, err
			}
		},
		ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
			return func(src io.Reader) (int64, error) {
				n, err := next(src)
				m.wroteHeader = true
				m.written += n
				return n, err
			}
		},
	})
}

// recoverer turns a handler panic into a 500 response. http.ErrAbortHandler
// is re-raised so net/http can abort the connection as intended.
func recoverer(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.Error("reqlog: handler panicked",
				"method", r.Method,
				"path", api.RequestPath(r),
				"panic", rec,
			)
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, msgInternalError) //nolint:errcheck
		}()
		next.ServeHTTP(w, r)
	})
}
