package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/ezseobasics/ezseo/internal/pkg/errors"
	"github.com/ezseobasics/ezseo/internal/pkg/logger"
	"github.com/ezseobasics/ezseo/internal/pkg/utils"
)

// Recovery returns a middleware that recovers from panics and returns a
// 500 response instead of crashing the server
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					zl := log.GetZerolog()
					zl.Error().
						Interface("panic", rec).
						Str("path", r.URL.Path).
						Str("request_id", GetRequestID(r)).
						Bytes("stack", debug.Stack()).
						Msg("panic recovered")

					utils.WriteError(w, errors.Internal("Internal server error", nil))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
