package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/lingocards/lingo-api/internal/api/shared"
	"github.com/lingocards/lingo-api/internal/ratelimit"
)

// Rate-limited endpoint names.
const (
	EndpointAIGenerate = "ai:generate"
	EndpointAIAccept   = "ai:accept"
)

// RateLimit rejects requests over the authenticated user's budget for
// endpoint with 429 and a Retry-After header in whole seconds. It must run
// after Authenticate.
func RateLimit(store *ratelimit.Store, endpoint string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := shared.UserIDFromContext(r.Context())
			if !ok {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
				return
			}

			decision := store.Allow(endpoint, userID.String())
			if !decision.Allowed {
				retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				shared.RespondWithError(w, r, http.StatusTooManyRequests,
					fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", retryAfter))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
