package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propmanagement/backend/pkg/auth"
	"github.com/propmanagement/backend/pkg/config"
)

func newTokenService() *auth.TokenService {
	return auth.NewTokenService(config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "test"})
}

// echoCaller writes the resolved caller id, or 0 when none was stored
func echoCaller(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFromContext(r.Context())
	json.NewEncoder(w).Encode(map[string]interface{}{"user_id": caller.UserID, "role": caller.Role})
}

func decodeCaller(t *testing.T, rec *httptest.ResponseRecorder) (uint, string) {
	t.Helper()
	var body struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.UserID, body.Role
}

func TestAuthenticate_BearerToken(t *testing.T) {
	tokens := newTokenService()
	token, err := tokens.GenerateToken(7, "renter@example.com", "RENTER")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	NewAuthenticator(tokens, false).Authenticate(echoCaller)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	id, role := decodeCaller(t, rec)
	assert.Equal(t, uint(7), id)
	assert.Equal(t, "RENTER", role)
}

func TestAuthenticate_TokenWinsOverHeader(t *testing.T) {
	tokens := newTokenService()
	token, err := tokens.GenerateToken(7, "renter@example.com", "RENTER")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Id", "99")
	rec := httptest.NewRecorder()

	NewAuthenticator(tokens, true).Authenticate(echoCaller)(rec, req)

	id, _ := decodeCaller(t, rec)
	assert.Equal(t, uint(7), id)
}

func TestAuthenticate_TrustedHeader(t *testing.T) {
	for _, header := range []string{"User-Id", "X-User-ID"} {
		t.Run(header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(header, "7")
			rec := httptest.NewRecorder()

			NewAuthenticator(newTokenService(), true).Authenticate(echoCaller)(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			id, role := decodeCaller(t, rec)
			assert.Equal(t, uint(7), id)
			assert.Empty(t, role)
		})
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		trust   bool
		wantMsg string
	}{
		{"no credentials", nil, true, "Authentication required"},
		{"header not trusted", map[string]string{"User-Id": "7"}, false, "Authentication required"},
		{"malformed header id", map[string]string{"User-Id": "seven"}, true, "Invalid User-Id header"},
		{"zero header id", map[string]string{"User-Id": "0"}, true, "Invalid User-Id header"},
		{"bad scheme", map[string]string{"Authorization": "Basic abc"}, true, "Invalid authorization header format"},
		{"bad token", map[string]string{"Authorization": "Bearer nope"}, true, "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()

			NewAuthenticator(newTokenService(), tt.trust).Authenticate(echoCaller)(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"`+tt.wantMsg+`"}`, rec.Body.String())
		})
	}
}

func TestOptionalAuthenticate(t *testing.T) {
	authn := NewAuthenticator(newTokenService(), true)

	rec := httptest.NewRecorder()
	authn.OptionalAuthenticate(echoCaller)(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	id, _ := decodeCaller(t, rec)
	assert.Zero(t, id)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Id", "3")
	rec = httptest.NewRecorder()
	authn.OptionalAuthenticate(echoCaller)(rec, req)
	id, _ = decodeCaller(t, rec)
	assert.Equal(t, uint(3), id)
}

func TestRequireRole_UsesStoredRole(t *testing.T) {
	tokens := newTokenService()
	authn := NewAuthenticator(tokens, true)
	stored := map[uint]string{2: "owner", 3: "RENTER"}
	lookup := func(ctx context.Context, userID uint) (string, error) {
		return stored[userID], nil
	}
	handler := authn.RequireRole(lookup, "OWNER", "ADMIN")(echoCaller)

	serve := func(header, value string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(header, value)
		rec := httptest.NewRecorder()
		handler(rec, req)
		return rec
	}

	ownerToken, err := tokens.GenerateToken(2, "owner@example.com", "OWNER")
	require.NoError(t, err)
	rec := serve("Authorization", "Bearer "+ownerToken)
	require.Equal(t, http.StatusOK, rec.Code)
	id, role := decodeCaller(t, rec)
	assert.Equal(t, uint(2), id)
	assert.Equal(t, "owner", role)

	// a stale owner claim does not outrank the stored renter role
	staleToken, err := tokens.GenerateToken(3, "renter@example.com", "OWNER")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, serve("Authorization", "Bearer "+staleToken).Code)

	// header callers carry no role claim and are judged on the stored one
	assert.Equal(t, http.StatusOK, serve("User-Id", "2").Code)
	assert.Equal(t, http.StatusForbidden, serve("User-Id", "3").Code)
	assert.Equal(t, http.StatusForbidden, serve("User-Id", "99").Code)
}

func TestRequireRole_LookupFailure(t *testing.T) {
	authn := NewAuthenticator(newTokenService(), true)
	lookup := func(ctx context.Context, userID uint) (string, error) {
		return "", errors.New("db down")
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("User-Id", "2")
	rec := httptest.NewRecorder()
	authn.RequireRole(lookup, "ADMIN")(echoCaller)(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}
