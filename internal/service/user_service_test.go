package service

import (
	"Finvisor/internal/api/dto"
	"Finvisor/internal/pkg/security"
	"Finvisor/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) UserService {
	followSvc := NewUserFollowService(repository.NewUserFollowRepo(db), repository.NewUserRepo(db))
	return NewUserService(repository.NewUserRepo(db), followSvc)
}

func TestRegisterIssuesToken(t *testing.T) {
	db := newTestEnv(t)
	svc := newUserService(db)

	token, err := svc.Register(context.Background(), &dto.RegisterDTO{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	claims, err := security.ValidateToken(token)
	require.NoError(t, err)
	require.NotZero(t, claims.UserID)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := newTestEnv(t)
	svc := newUserService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterDTO{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterDTO{
		Username: "alice",
		Email:    "other@example.com",
		Password: "secret123",
	})
	require.ErrorIs(t, err, ErrUserUsernameExist)

	_, err = svc.Register(ctx, &dto.RegisterDTO{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.ErrorIs(t, err, ErrUserEmailExist)
}

func TestLoginChecksPassword(t *testing.T) {
	db := newTestEnv(t)
	svc := newUserService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterDTO{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	username := "alice"
	token, err := svc.Login(ctx, &dto.CredentialDTO{Username: &username, Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, err = svc.Login(ctx, &dto.CredentialDTO{Username: &username, Password: "wrong"})
	require.ErrorIs(t, err, ErrPasswordIncorrect)

	email := "alice@example.com"
	_, err = svc.Login(ctx, &dto.CredentialDTO{Email: &email, Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.CredentialDTO{Password: "secret123"})
	require.ErrorIs(t, err, ErrMissingLoginCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	db := newTestEnv(t)
	svc := newUserService(db)

	username := "ghost"
	_, err := svc.Login(context.Background(), &dto.CredentialDTO{Username: &username, Password: "secret123"})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserHomeAggregatesCounts(t *testing.T) {
	db := newTestEnv(t)
	svc := newUserService(db)
	followSvc := NewUserFollowService(repository.NewUserFollowRepo(db), repository.NewUserRepo(db))
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := followSvc.ToggleFollow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	home, err := svc.GetUserHome(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", home.Nickname)
	require.EqualValues(t, 1, home.FollowerCount)
	require.EqualValues(t, 0, home.FollowingCount)
	require.True(t, home.IsFollowing)

	// 未登录访问同一主页，关注状态按访问者计算
	home, err = svc.GetUserHome(ctx, alice.ID, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, home.FollowerCount)
	require.False(t, home.IsFollowing)
}

func TestUpdateUserInfo(t *testing.T) {
	db := newTestEnv(t)
	svc := newUserService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")

	err := svc.UpdateUserInfo(ctx, alice.ID, &dto.UserUpdateDTO{
		Nickname: "Alice L",
		Bio:      "hello there",
	})
	require.NoError(t, err)

	info, err := svc.GetUserInfo(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice L", info.Nickname)
	require.Equal(t, "hello there", info.Bio)
}
