package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/propmanagement/backend/pkg/auth"
	"github.com/propmanagement/backend/pkg/logger"
	"github.com/propmanagement/backend/pkg/response"
)

// Headers that carry a pre-authenticated caller id when header trust is enabled
var callerHeaders = []string{"User-Id", "X-User-ID"}

var (
	errNoCaller      = errors.New("authentication required")
	errInvalidHeader = errors.New("invalid authorization header format")
	errInvalidCaller = errors.New("invalid caller id")
)

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// Authenticator resolves the caller of a request and stores it in the context
type Authenticator struct {
	tokens            TokenValidator
	trustCallerHeader bool
}

func NewAuthenticator(tokens TokenValidator, trustCallerHeader bool) *Authenticator {
	return &Authenticator{tokens: tokens, trustCallerHeader: trustCallerHeader}
}

// resolve prefers a bearer token and falls back to the caller header when trusted
func (a *Authenticator) resolve(r *http.Request) (auth.Caller, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return auth.Caller{}, errInvalidHeader
		}

		claims, err := a.tokens.ValidateToken(parts[1])
		if err != nil {
			return auth.Caller{}, err
		}
		return auth.Caller{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
	}

	if !a.trustCallerHeader {
		return auth.Caller{}, errNoCaller
	}

	for _, header := range callerHeaders {
		value := strings.TrimSpace(r.Header.Get(header))
		if value == "" {
			continue
		}
		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil || id == 0 {
			return auth.Caller{}, errInvalidCaller
		}
		return auth.Caller{UserID: uint(id)}, nil
	}

	return auth.Caller{}, errNoCaller
}

// Authenticate rejects requests without a resolvable caller with 401
func (a *Authenticator) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := a.resolve(r)
		if err != nil {
			logger.Debug(r.Context()).Err(err).Str("path", r.URL.Path).Msg("Unauthenticated request")
			response.Error(w, http.StatusUnauthorized, unauthorizedMessage(err))
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithCaller(r.Context(), caller)))
	}
}

// OptionalAuthenticate stores the caller when one is present and never rejects
func (a *Authenticator) OptionalAuthenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if caller, err := a.resolve(r); err == nil {
			r = r.WithContext(auth.WithCaller(r.Context(), caller))
		}
		next.ServeHTTP(w, r)
	}
}

// RoleLookup returns the stored role of a user, or "" when the user does not exist
type RoleLookup func(ctx context.Context, userID uint) (string, error)

// RequireRole authenticates the request and requires the caller's stored role to be one of roles.
// Token role claims are ignored since they go stale when a role changes.
func (a *Authenticator) RequireRole(lookup RoleLookup, roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return a.Authenticate(func(w http.ResponseWriter, r *http.Request) {
			caller, _ := auth.CallerFromContext(r.Context())

			role, err := lookup(r.Context(), caller.UserID)
			if err != nil {
				logger.Error(r.Context()).Err(err).Uint("user_id", caller.UserID).Msg("Failed to resolve caller role")
				response.Error(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			stored := auth.Caller{UserID: caller.UserID, Email: caller.Email, Role: role}
			if !stored.HasRole(roles...) {
				response.Error(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithCaller(r.Context(), stored)))
		})
	}
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, errInvalidHeader):
		return "Invalid authorization header format"
	case errors.Is(err, errInvalidCaller):
		return "Invalid User-Id header"
	case errors.Is(err, errNoCaller):
		return "Authentication required"
	default:
		return "Invalid token"
	}
}
