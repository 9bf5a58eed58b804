package service

import (
	"Finvisor/internal/api/dto"
	"Finvisor/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTogglePostLikeFlipsBothWays(t *testing.T) {
	db := newTestEnv(t)
	svc := NewPostActionService(repository.NewPostActionRepo(db), repository.NewPostRepo(db))
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	post := seedPost(t, db, alice.ID, "hello")

	action, err := svc.TogglePostLike(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	require.Equal(t, ActionLiked, action)

	count, err := svc.GetPostLikeCount(ctx, post.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	action, err = svc.TogglePostLike(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	require.Equal(t, ActionUnliked, action)

	count, err = svc.GetPostLikeCount(ctx, post.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}

func TestTogglePostLikeMissingPost(t *testing.T) {
	db := newTestEnv(t)
	svc := NewPostActionService(repository.NewPostActionRepo(db), repository.NewPostRepo(db))

	alice := seedUser(t, db, "alice")

	_, err := svc.TogglePostLike(context.Background(), alice.ID, 999)
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestToggleSequenceEndsConsistent(t *testing.T) {
	db := newTestEnv(t)
	svc := NewPostActionService(repository.NewPostActionRepo(db), repository.NewPostRepo(db))
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, alice.ID, "hello")

	// 奇数次翻转留下点赞，偶数次翻转回到原点
	for i := 0; i < 3; i++ {
		_, err := svc.TogglePostLike(ctx, alice.ID, post.ID)
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := svc.TogglePostLike(ctx, bob.ID, post.ID)
		require.NoError(t, err)
	}

	count, err := svc.GetPostLikeCount(ctx, post.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	liked, err := svc.IsPostLiked(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	require.True(t, liked)

	liked, err = svc.IsPostLiked(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	require.False(t, liked)
}

func TestToggleCommentLike(t *testing.T) {
	db := newTestEnv(t)
	svc := NewPostActionService(repository.NewPostActionRepo(db), repository.NewPostRepo(db))
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	post := seedPost(t, db, alice.ID, "hello")

	require.NoError(t, svc.CreateComment(ctx, alice.ID, &dto.CommentCreateDTO{
		PostID:  post.ID,
		Content: "nice",
	}))

	comments, err := svc.GetCommentsByPostID(ctx, post.ID, alice.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	action, err := svc.ToggleCommentLike(ctx, alice.ID, comments[0].ID)
	require.NoError(t, err)
	require.Equal(t, ActionLiked, action)

	count, err := svc.GetCommentLikeCount(ctx, comments[0].ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	action, err = svc.ToggleCommentLike(ctx, alice.ID, comments[0].ID)
	require.NoError(t, err)
	require.Equal(t, ActionUnliked, action)
}

func TestCommentCountTracksCreateAndDelete(t *testing.T) {
	db := newTestEnv(t)
	svc := NewPostActionService(repository.NewPostActionRepo(db), repository.NewPostRepo(db))
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	post := seedPost(t, db, alice.ID, "hello")

	require.NoError(t, svc.CreateComment(ctx, alice.ID, &dto.CommentCreateDTO{PostID: post.ID, Content: "one"}))
	require.NoError(t, svc.CreateComment(ctx, alice.ID, &dto.CommentCreateDTO{PostID: post.ID, Content: "two"}))

	count, err := svc.GetPostCommentCount(ctx, post.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	comments, err := svc.GetCommentsByPostID(ctx, post.ID, 0, 1, 10)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	require.NoError(t, svc.DeleteComment(ctx, alice.ID, comments[0].ID))

	count, err = svc.GetPostCommentCount(ctx, post.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestDeleteCommentRequiresOwner(t *testing.T) {
	db := newTestEnv(t)
	svc := NewPostActionService(repository.NewPostActionRepo(db), repository.NewPostRepo(db))
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, alice.ID, "hello")

	require.NoError(t, svc.CreateComment(ctx, alice.ID, &dto.CommentCreateDTO{PostID: post.ID, Content: "mine"}))
	comments, err := svc.GetCommentsByPostID(ctx, post.ID, 0, 1, 10)
	require.NoError(t, err)

	err = svc.DeleteComment(ctx, bob.ID, comments[0].ID)
	require.ErrorIs(t, err, UnauthorizedError)
}

func TestCommentListCarriesLiveLikeCounts(t *testing.T) {
	db := newTestEnv(t)
	svc := NewPostActionService(repository.NewPostActionRepo(db), repository.NewPostRepo(db))
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, alice.ID, "hello")

	require.NoError(t, svc.CreateComment(ctx, alice.ID, &dto.CommentCreateDTO{
		PostID:  post.ID,
		Content: "first",
	}))
	require.NoError(t, svc.CreateComment(ctx, bob.ID, &dto.CommentCreateDTO{
		PostID:  post.ID,
		Content: "second",
	}))

	comments, err := svc.GetCommentsByPostID(ctx, post.ID, 0, 1, 10)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	target := comments[0].ID
	other := comments[1].ID

	_, err = svc.ToggleCommentLike(ctx, alice.ID, target)
	require.NoError(t, err)
	_, err = svc.ToggleCommentLike(ctx, bob.ID, target)
	require.NoError(t, err)

	countByID := func() map[uint64]int64 {
		list, err := svc.GetCommentsByPostID(ctx, post.ID, 0, 1, 10)
		require.NoError(t, err)
		counts := make(map[uint64]int64, len(list))
		for _, c := range list {
			counts[c.ID] = c.LikesCount
		}
		return counts
	}

	counts := countByID()
	require.EqualValues(t, 2, counts[target])
	require.EqualValues(t, 0, counts[other])

	// 第二次读走缓存命中，计数口径不变
	require.EqualValues(t, 2, countByID()[target])

	// 取消一个赞，缓存失效后重新回源
	_, err = svc.ToggleCommentLike(ctx, bob.ID, target)
	require.NoError(t, err)
	require.EqualValues(t, 1, countByID()[target])
}
