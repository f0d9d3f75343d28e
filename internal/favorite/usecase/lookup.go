// Package usecase holds what the favorite commands and queries share:
// lookups of the referenced user and property and the event publisher contract.
package usecase

import (
	"context"
	"errors"

	"github.com/propmanagement/backend/internal/favorite/domain"
	propertydomain "github.com/propmanagement/backend/internal/property/domain"
	userdomain "github.com/propmanagement/backend/internal/user/domain"
	"github.com/propmanagement/backend/pkg/apperror"
)

// Client facing messages
const (
	MsgUserNotFound     = "User not found"
	MsgPropertyNotFound = "Property not found"
)

// RequireUser loads the user or fails with a NotFound error
func RequireUser(ctx context.Context, users domain.UserReader, id uint) (*userdomain.User, error) {
	user, err := users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			return nil, apperror.NotFound(MsgUserNotFound)
		}
		return nil, apperror.Internal("failed to load user", err)
	}
	return user, nil
}

// RequireProperty loads the property or fails with a NotFound error
func RequireProperty(ctx context.Context, properties domain.PropertyReader, id uint) (*propertydomain.Property, error) {
	property, err := properties.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, propertydomain.ErrPropertyNotFound) {
			return nil, apperror.NotFound(MsgPropertyNotFound)
		}
		return nil, apperror.Internal("failed to load property", err)
	}
	return property, nil
}

// IsNotFound reports whether err came from a failed RequireUser or RequireProperty lookup
func IsNotFound(err error) bool {
	return apperror.KindOf(err) == apperror.KindNotFound
}
