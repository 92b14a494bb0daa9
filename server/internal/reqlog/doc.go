// Package reqlog wraps the shard's HTTP handler with per-request logging.
//
// Middleware emits one "request" record per completed request with the
// method, escaped path, final status, elapsed time and bytes written. The
// record is written after the response, so a slow or failing log sink never
// delays or alters what the client receives.
//
// A panic inside the wrapped handler is recovered and answered with
// 500 "Internal server error" instead of tearing down the connection.
package reqlog
