package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "inviteticketing/internal/delivery/http/helpers"
	"inviteticketing/internal/domain"
)

type contextKey string

const staffIDKey contextKey = "staffID"

// SetStaffID returns a context carrying the authenticated staff ID.
func SetStaffID(ctx context.Context, staffID string) context.Context {
	return context.WithValue(ctx, staffIDKey, staffID)
}

// StaffIDFromContext returns the authenticated staff ID from the context, if present.
func StaffIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(staffIDKey).(string)
	return id, ok
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the staff ID in the request context.
// Missing or invalid tokens get 401, tokens without the staff role get 403.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			staffID, err := verifier.Verify(token)
			if err != nil {
				if errors.Is(err, domain.ErrForbidden) {
					logger.WarnContext(r.Context(), "token without staff role", "path", r.URL.Path)
					h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
					return
				}
				logger.DebugContext(r.Context(), "token rejected", "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			next(w, r.WithContext(SetStaffID(r.Context(), staffID)))
		}
	}
}
