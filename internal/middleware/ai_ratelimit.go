package middleware

import (
	"net/http"
	"strings"

	"github.com/evermind-app/evermind-backend/pkg/clientip"
	"golang.org/x/time/rate"
)

// The mood and journal write paths can fan out to the external scorer with
// retries, so they get a much tighter per-IP budget than the rest of the API:
// ~6 scored submissions per minute, burst 3.

var aiPool = newLimiterPool(func() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(0.1), 3)
})

func isScoredWrite(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	return strings.HasPrefix(r.URL.Path, "/api/mood") || strings.HasPrefix(r.URL.Path, "/api/journals")
}

// AIRateLimit guards the endpoints that call the external scorer.
func AIRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isScoredWrite(r) {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientip.FromRequest(r)
		if !aiPool.get(ip).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"message":"Too many scored submissions. Please wait a moment and try again."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
