package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/dom/league-damage-calc/internal/service"
)

type contextKey string

const (
	SubjectKey contextKey = "subject"
)

// Admin accepts only bearer tokens carrying the admin role.
func Admin(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Printf("ERROR [middleware.Admin] missing authorization header")
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Printf("ERROR [middleware.Admin] invalid authorization header format")
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}

			subject, err := authService.RequireAdmin(parts[1])
			switch {
			case errors.Is(err, service.ErrImportDisabled):
				log.Printf("ERROR [middleware.Admin] %v", err)
				http.Error(w, "Catalog import is disabled", http.StatusServiceUnavailable)
				return
			case errors.Is(err, service.ErrForbidden):
				log.Printf("ERROR [middleware.Admin] subject lacks admin role")
				http.Error(w, "Admin role required", http.StatusForbidden)
				return
			case err != nil:
				log.Printf("ERROR [middleware.Admin] token validation failed: %v", err)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(SubjectKey).(string)
	return subject, ok
}
