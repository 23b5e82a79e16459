package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ukydev/marine-pms/internal/models"
)

// ActivityRecorder stores activity trail entries.
type ActivityRecorder interface {
	Record(ctx context.Context, entry models.ActivityLog)
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// Audit records every successful mutating request of a signed-in user as
// "METHOD /route/pattern". Requests whose pattern is in ignore are left to
// their handlers. It must run after Authenticate.
func Audit(rec ActivityRecorder, ignore ...string) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(ignore))
	for _, p := range ignore {
		skip[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rec == nil || !mutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			sr := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(sr, r)
			if sr.status == 0 {
				sr.status = http.StatusOK
			}
			if sr.status >= http.StatusBadRequest {
				return
			}
			claims, ok := GetUserFromContext(r.Context())
			if !ok {
				return
			}
			pattern := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				pattern = rctx.RoutePattern()
			}
			if skip[pattern] {
				return
			}
			rec.Record(r.Context(), models.ActivityLog{
				UserID:    claims.UserID,
				Username:  claims.Username,
				Action:    r.Method + " " + pattern,
				Status:    sr.status,
				IPAddress: ClientIP(r),
				UserAgent: r.UserAgent(),
				Details:   GetRequestID(r.Context()),
			})
		})
	}
}
