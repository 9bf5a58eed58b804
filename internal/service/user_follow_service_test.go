package service

import (
	"Finvisor/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newFollowService(t *testing.T) (UserFollowService, *followFixture) {
	db := newTestEnv(t)
	svc := NewUserFollowService(repository.NewUserFollowRepo(db), repository.NewUserRepo(db))
	return svc, &followFixture{
		alice: seedUser(t, db, "alice").ID,
		bob:   seedUser(t, db, "bob").ID,
	}
}

type followFixture struct {
	alice uint64
	bob   uint64
}

func TestToggleFollowFlipsBothWays(t *testing.T) {
	svc, f := newFollowService(t)
	ctx := context.Background()

	action, err := svc.ToggleFollow(ctx, f.alice, f.bob)
	require.NoError(t, err)
	require.Equal(t, ActionFollow, action)

	isFollowing, err := svc.IsFollowing(ctx, f.alice, f.bob)
	require.NoError(t, err)
	require.True(t, isFollowing)

	action, err = svc.ToggleFollow(ctx, f.alice, f.bob)
	require.NoError(t, err)
	require.Equal(t, ActionUnfollow, action)

	isFollowing, err = svc.IsFollowing(ctx, f.alice, f.bob)
	require.NoError(t, err)
	require.False(t, isFollowing)
}

func TestToggleFollowRejectsSelf(t *testing.T) {
	svc, f := newFollowService(t)

	_, err := svc.ToggleFollow(context.Background(), f.alice, f.alice)
	require.ErrorIs(t, err, ErrUserFollowSelf)
}

func TestToggleFollowMissingTarget(t *testing.T) {
	svc, f := newFollowService(t)

	_, err := svc.ToggleFollow(context.Background(), f.alice, 999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestFollowIsDirectional(t *testing.T) {
	svc, f := newFollowService(t)
	ctx := context.Background()

	_, err := svc.ToggleFollow(ctx, f.alice, f.bob)
	require.NoError(t, err)

	// 关注是单向的，反向关系不成立
	isFollowing, err := svc.IsFollowing(ctx, f.bob, f.alice)
	require.NoError(t, err)
	require.False(t, isFollowing)

	count, err := svc.GetFollowingCount(ctx, f.alice)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	count, err = svc.GetFollowerCount(ctx, f.bob)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	count, err = svc.GetFollowerCount(ctx, f.alice)
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}

func TestFollowCountsSurviveToggleChurn(t *testing.T) {
	svc, f := newFollowService(t)
	ctx := context.Background()

	// 计数缓存会在每次翻转后失效，重查必须回到关系表口径
	for i := 0; i < 4; i++ {
		_, err := svc.ToggleFollow(ctx, f.alice, f.bob)
		require.NoError(t, err)

		expected := int64((i + 1) % 2)
		count, err := svc.GetFollowerCount(ctx, f.bob)
		require.NoError(t, err)
		require.Equal(t, expected, count)
	}
}

func TestFollowListsCarryProfile(t *testing.T) {
	svc, f := newFollowService(t)
	ctx := context.Background()

	_, err := svc.ToggleFollow(ctx, f.alice, f.bob)
	require.NoError(t, err)

	following, err := svc.GetFollowing(ctx, f.alice, 1, 10)
	require.NoError(t, err)
	require.Len(t, following, 1)
	require.Equal(t, f.bob, following[0].UserID)
	require.Equal(t, "bob", following[0].Nickname)

	followers, err := svc.GetFollowers(ctx, f.bob, 1, 10)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	require.Equal(t, f.alice, followers[0].UserID)
	require.Equal(t, "alice", followers[0].Nickname)
}
