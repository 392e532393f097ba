package httpx

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/apperr"
	"github.com/ariefcatur/go-food-orders/internal/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// HeaderUserID carries the caller identity set by the upstream gateway.
const HeaderUserID = "X-User-Id"

type userKey struct{}

// requestLogger puts the chi request id on the log context and logs one
// line per request.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := log.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
			ctx = log.WithFields(ctx, map[string]any{"method": r.Method, "path": r.URL.Path})

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.Info(log.WithFields(ctx, map[string]any{
				"status":      status,
				"duration_ms": time.Since(start).Milliseconds(),
			}), "request.complete")
		})
	}
}

func requireUser(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if uid == "" {
				writeError(r.Context(), log, w, apperr.New(apperr.CodeUnauthorized, "missing "+HeaderUserID))
				return
			}
			ctx := context.WithValue(r.Context(), userKey{}, uid)
			ctx = log.WithUserID(ctx, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userID(r *http.Request) string {
	uid, _ := r.Context().Value(userKey{}).(string)
	return uid
}
