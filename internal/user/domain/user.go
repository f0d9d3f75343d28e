package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Role types
const (
	RoleRenter = "RENTER"
	RoleOwner  = "OWNER"
	RoleAdmin  = "ADMIN"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// User represents a registered account
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Phone     string    `json:"phone"`
	Password  string    `json:"-" gorm:"not null"`
	Role      string    `json:"role" gorm:"not null;default:'RENTER'"`
	IsActive  bool      `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// NormalizeRole upper-cases role, returning "" for unknown roles
func NormalizeRole(role string) string {
	switch upper := strings.ToUpper(strings.TrimSpace(role)); upper {
	case RoleRenter, RoleOwner, RoleAdmin:
		return upper
	default:
		return ""
	}
}

// IsRenter reports whether the user holds the renter role. Stored roles are compared case-insensitively.
func (u *User) IsRenter() bool {
	return strings.EqualFold(u.Role, RoleRenter)
}

func (u *User) IsOwner() bool {
	return strings.EqualFold(u.Role, RoleOwner)
}

func (u *User) IsAdmin() bool {
	return strings.EqualFold(u.Role, RoleAdmin)
}

// UserRepository defines the contract for user data access
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Count(ctx context.Context) (int64, error)
}
