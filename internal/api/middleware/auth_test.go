package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/league-damage-calc/internal/api/middleware"
	"github.com/dom/league-damage-calc/internal/config"
	"github.com/dom/league-damage-calc/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func TestAdmin(t *testing.T) {
	authService := service.NewAuthService(&config.Config{JWTSecret: testSecret})

	adminToken, err := authService.IssueToken("alice", service.RoleAdmin, time.Hour)
	require.NoError(t, err)
	readerToken, err := authService.IssueToken("bob", "reader", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name            string
		header          string
		expectedStatus  int
		expectedSubject string
	}{
		{name: "admin", header: "Bearer " + adminToken, expectedStatus: http.StatusOK, expectedSubject: "alice"},
		{name: "missing header", expectedStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + adminToken, expectedStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", expectedStatus: http.StatusUnauthorized},
		{name: "reader role", header: "Bearer " + readerToken, expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var subject string
			handler := middleware.Admin(authService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				subject, _ = middleware.GetSubject(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/import", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedSubject, subject)
		})
	}
}

func TestAdmin_ImportDisabled(t *testing.T) {
	authService := service.NewAuthService(&config.Config{})

	handler := middleware.Admin(authService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/import", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "disabled")
}

func TestCORS(t *testing.T) {
	called := false
	handler := middleware.CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/builds/search", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, called)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.True(t, called)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
