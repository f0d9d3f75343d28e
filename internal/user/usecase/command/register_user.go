package command

import (
	"context"

	"github.com/propmanagement/backend/internal/user/domain"
	"github.com/propmanagement/backend/pkg/apperror"
)

// RegisterUserCommand represents a self service sign up
type RegisterUserCommand struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string // defaults to RENTER
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo domain.UserRepository
}

func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// Handle registers a renter or owner. Administrators can only be created by another administrator.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*domain.User, error) {
	role := domain.RoleRenter
	if cmd.Role != "" {
		role = domain.NormalizeRole(cmd.Role)
	}
	if role != domain.RoleRenter && role != domain.RoleOwner {
		return nil, apperror.Validation("role must be RENTER or OWNER")
	}

	return createUser(ctx, h.repo, CreateUserCommand{
		Name:     cmd.Name,
		Email:    cmd.Email,
		Phone:    cmd.Phone,
		Password: cmd.Password,
		Role:     role,
	})
}
