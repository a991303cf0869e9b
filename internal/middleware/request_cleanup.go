package middleware

import (
	"io"
	"net/http"
)

// maxDrainBytes caps how much of an unread request body is drained.
const maxDrainBytes = 1 << 20

// DrainAndCloseRequest drains what the handler left unread of the request
// body, so the connection can be reused, and closes it.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, io.LimitReader(r.Body, maxDrainBytes))
				_ = r.Body.Close()
			}
		})
	}
}
