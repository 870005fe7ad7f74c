package middleware

import (
	"net/http"
	"time"

	"orgconfig/pkg/common"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestContext records the request id assigned by chi and the start time,
// and echoes the id back in the response so clients can quote it.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta := common.RequestMeta{ID: middleware.GetReqID(r.Context()), Started: time.Now()}
		if meta.ID != "" {
			w.Header().Set(middleware.RequestIDHeader, meta.ID)
		}
		next.ServeHTTP(w, r.WithContext(common.WithRequestMeta(r.Context(), meta)))
	})
}
