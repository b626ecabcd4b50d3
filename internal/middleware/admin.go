package middleware

import (
	"log/slog"
	"net/http"

	"starmap-server/internal/shared/errors"
	"starmap-server/internal/shared/response"
)

func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "admin",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		logger.Debug("Processing admin authorization")

		claims := GetUserFromContext(r)
		if claims == nil {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		if !claims.IsAdmin() {
			logger.Warn("Non-admin caller attempted to access admin endpoint",
				"subject", claims.Subject,
				"role", claims.Role)
			response.Error(w, r, logger, errors.Forbidden("admin access required"))
			return
		}

		logger.Debug("Admin authorization successful", "subject", claims.Subject)

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin chains bearer authentication and the admin role check.
func RequireAdmin(secret string) func(http.Handler) http.Handler {
	jwtMiddleware := JWTMiddleware(secret)
	return func(next http.Handler) http.Handler {
		return jwtMiddleware(AdminMiddleware(next))
	}
}
