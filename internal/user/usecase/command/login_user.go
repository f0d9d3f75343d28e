package command

import (
	"context"
	"errors"

	"github.com/propmanagement/backend/internal/user/domain"
	"github.com/propmanagement/backend/pkg/apperror"
	"github.com/propmanagement/backend/pkg/auth"
	"github.com/propmanagement/backend/pkg/logger"
)

// LoginUserCommand represents the command to login a user
type LoginUserCommand struct {
	Email    string
	Password string
}

// LoginResponse is the body the frontend reads after signing in
type LoginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

// TokenGenerator signs access tokens
type TokenGenerator interface {
	GenerateToken(userID uint, email, role string) (string, error)
}

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	repo   domain.UserRepository
	tokens TokenGenerator
}

func NewLoginUserHandler(repo domain.UserRepository, tokens TokenGenerator) *LoginUserHandler {
	return &LoginUserHandler{repo: repo, tokens: tokens}
}

func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*LoginResponse, error) {
	if cmd.Email == "" || cmd.Password == "" {
		return nil, apperror.Validation("email and password are required")
	}

	user, err := h.repo.FindByEmail(ctx, cmd.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, apperror.Internal("failed to load user", err)
	}

	if !user.IsActive {
		return nil, apperror.Forbidden("account is deactivated")
	}

	if !auth.CheckPassword(user.Password, cmd.Password) {
		logger.Warn(ctx).Uint("user_id", user.ID).Msg("Login rejected: wrong password")
		return nil, apperror.Unauthorized("invalid credentials")
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperror.Internal("failed to generate token", err)
	}

	return &LoginResponse{
		Success: true,
		Token:   token,
		User:    user,
	}, nil
}
