package auth

import (
	"context"
	"strings"
)

// Caller is the identity a request was made on behalf of
type Caller struct {
	UserID uint
	Email  string
	// Role is empty when the caller was resolved from a trusted header instead of a token
	Role string
}

// HasRole reports whether the caller holds one of roles, ignoring case
func (c Caller) HasRole(roles ...string) bool {
	for _, role := range roles {
		if c.Role != "" && strings.EqualFold(c.Role, role) {
			return true
		}
	}
	return false
}

type callerKey struct{}

func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

func CallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(Caller)
	return caller, ok
}
