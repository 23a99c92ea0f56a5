package middleware

import (
	"net/http"

	"github.com/oklog/ulid/v2"
)

const requestIDHeader = "X-Request-Id"

// RequestID assigns a ULID to each request that does not already carry one
// and echoes it back on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = ulid.Make().String()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
