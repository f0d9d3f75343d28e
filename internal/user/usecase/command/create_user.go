package command

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/propmanagement/backend/internal/user/domain"
	"github.com/propmanagement/backend/pkg/apperror"
	"github.com/propmanagement/backend/pkg/auth"
	"github.com/propmanagement/backend/pkg/logger"
)

const minPasswordLength = 6

// CreateUserCommand is issued by administrators and may carry any role
type CreateUserCommand struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
}

// CreateUserHandler handles the admin create user command
type CreateUserHandler struct {
	repo domain.UserRepository
}

func NewCreateUserHandler(repo domain.UserRepository) *CreateUserHandler {
	return &CreateUserHandler{repo: repo}
}

func (h *CreateUserHandler) Handle(ctx context.Context, cmd CreateUserCommand) (*domain.User, error) {
	role := domain.NormalizeRole(cmd.Role)
	if role == "" {
		return nil, apperror.Validation("role must be one of RENTER, OWNER, ADMIN")
	}
	cmd.Role = role
	return createUser(ctx, h.repo, cmd)
}

// createUser validates, hashes and stores a new account with an already normalized role
func createUser(ctx context.Context, repo domain.UserRepository, cmd CreateUserCommand) (*domain.User, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Email = strings.ToLower(strings.TrimSpace(cmd.Email))

	if cmd.Name == "" {
		return nil, apperror.Validation("name is required")
	}
	if cmd.Email == "" {
		return nil, apperror.Validation("email is required")
	}
	if _, err := mail.ParseAddress(cmd.Email); err != nil {
		return nil, apperror.Validation("email is invalid")
	}
	if len(cmd.Password) < minPasswordLength {
		return nil, apperror.Validation("password must be at least 6 characters")
	}

	existing, err := repo.FindByEmail(ctx, cmd.Email)
	if err == nil && existing != nil {
		return nil, apperror.Conflict("email already registered")
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, apperror.Internal("failed to check email", err)
	}

	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, apperror.Internal("failed to hash password", err)
	}

	user := &domain.User{
		Name:     cmd.Name,
		Email:    cmd.Email,
		Phone:    strings.TrimSpace(cmd.Phone),
		Password: hashedPassword,
		Role:     cmd.Role,
		IsActive: true,
	}

	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, apperror.Conflict("email already registered")
		}
		return nil, apperror.Internal("failed to create user", err)
	}

	logger.Info(ctx).
		Uint("user_id", user.ID).
		Str("role", user.Role).
		Msg("User created")

	return user, nil
}
