package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// JWTValidator defines the interface for validating JWT tokens
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator
type JWTClaims struct {
	UserID   string
	TenantID string
}

// Context keys for storing authenticated caller information
type contextKeyUserID struct{}
type contextKeyTenantID struct{}

var (
	ContextKeyUserID   = contextKeyUserID{}
	ContextKeyTenantID = contextKeyTenantID{}
)

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(ContextKeyUserID).(string)
	if !ok {
		return ""
	}
	return userID
}

// GetTenantID retrieves the authenticated tenant ID from the context
func GetTenantID(ctx context.Context) string {
	tenantID, ok := ctx.Value(ContextKeyTenantID).(string)
	if !ok {
		return ""
	}
	return tenantID
}

// RequireAuth validates the bearer token and stores caller identity in the
// request context. Requests without a valid token are rejected before any
// handler runs.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				logger.WarnContext(r.Context(), "missing bearer token",
					"path", r.URL.Path,
				)
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}

			claims, err := validator.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.WarnContext(r.Context(), "token validation failed",
					"path", r.URL.Path,
					"error", err.Error(),
				)
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, ContextKeyTenantID, claims.TenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
