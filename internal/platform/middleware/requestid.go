package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/maciusman/seo-aiditor/internal/platform/requestid"
)

// RequestID tags each request with a correlation ID and echoes it in the
// response header. A well-formed incoming X-Request-ID is reused; anything
// else is replaced by a new UUID v4.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := requestid.Sanitize(r.Header.Get(requestid.Header))
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set(requestid.Header, id)
		next.ServeHTTP(w, r.WithContext(requestid.NewContext(r.Context(), id)))
	})
}
