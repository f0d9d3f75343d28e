package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propmanagement/backend/internal/testutil"
	"github.com/propmanagement/backend/internal/user/domain"
	"github.com/propmanagement/backend/internal/user/repository"
	"github.com/propmanagement/backend/pkg/apperror"
	"github.com/propmanagement/backend/pkg/auth"
	"github.com/propmanagement/backend/pkg/config"
)

func newRepo(t *testing.T) *repository.GormUserRepository {
	return repository.NewGormUserRepository(testutil.NewTestDB(t))
}

func TestRegisterUser(t *testing.T) {
	repo := newRepo(t)
	handler := NewRegisterUserHandler(repo)
	ctx := context.Background()

	user, err := handler.Handle(ctx, RegisterUserCommand{
		Name:     " Asha ",
		Email:    "Asha@Example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, domain.RoleRenter, user.Role)
	assert.NotEqual(t, "secret1", user.Password)
	assert.True(t, auth.CheckPassword(user.Password, "secret1"))

	owner, err := handler.Handle(ctx, RegisterUserCommand{
		Name: "Ravi", Email: "ravi@example.com", Password: "secret1", Role: "owner",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, owner.Role)
}

func TestRegisterUser_Validation(t *testing.T) {
	tests := []struct {
		name string
		cmd  RegisterUserCommand
		kind apperror.Kind
	}{
		{"missing name", RegisterUserCommand{Email: "a@b.com", Password: "secret1"}, apperror.KindValidation},
		{"bad email", RegisterUserCommand{Name: "A", Email: "nope", Password: "secret1"}, apperror.KindValidation},
		{"short password", RegisterUserCommand{Name: "A", Email: "a@b.com", Password: "123"}, apperror.KindValidation},
		{"admin self sign up", RegisterUserCommand{Name: "A", Email: "a@b.com", Password: "secret1", Role: "ADMIN"}, apperror.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegisterUserHandler(newRepo(t)).Handle(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
		})
	}
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	handler := NewRegisterUserHandler(newRepo(t))
	ctx := context.Background()

	_, err := handler.Handle(ctx, RegisterUserCommand{Name: "A", Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = handler.Handle(ctx, RegisterUserCommand{Name: "B", Email: "A@B.com", Password: "secret1"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestCreateUser_AnyRole(t *testing.T) {
	handler := NewCreateUserHandler(newRepo(t))

	user, err := handler.Handle(context.Background(), CreateUserCommand{
		Name: "Root", Email: "root@example.com", Password: "secret1", Role: "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	_, err = handler.Handle(context.Background(), CreateUserCommand{
		Name: "X", Email: "x@example.com", Password: "secret1", Role: "superuser",
	})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestLoginUser(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	tokens := auth.NewTokenService(config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "test"})

	registered, err := NewRegisterUserHandler(repo).Handle(ctx, RegisterUserCommand{
		Name: "Asha", Email: "asha@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	login := NewLoginUserHandler(repo, tokens)

	resp, err := login.Handle(ctx, LoginUserCommand{Email: "ASHA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, registered.ID, resp.User.ID)

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, domain.RoleRenter, claims.Role)

	_, err = login.Handle(ctx, LoginUserCommand{Email: "asha@example.com", Password: "wrong-password"})
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	_, err = login.Handle(ctx, LoginUserCommand{Email: "nobody@example.com", Password: "secret1"})
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	assert.Equal(t, "invalid credentials", apperror.MessageOf(err))
}
