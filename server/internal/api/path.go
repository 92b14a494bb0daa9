package api

import (
	"net/http"
	"strings"
)

// RequestPath returns the request path exactly as the client sent it: the
// request target up to the first '?', with no decoding or re-escaping.
// Requests built in-process (no RequestURI) and absolute-form targets fall
// back to the URL's escaped path.
func RequestPath(r *http.Request) string {
	target := r.RequestURI
	if !strings.HasPrefix(target, "/") {
		return r.URL.EscapedPath()
	}
	if i := strings.IndexByte(target, '?'); i >= 0 {
		target = target[:i]
	}
	return target
}
