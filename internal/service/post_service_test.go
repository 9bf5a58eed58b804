package service

import (
	"Finvisor/internal/api/dto"
	"Finvisor/internal/repository"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPostService(db *gorm.DB) PostService {
	postRepo := repository.NewPostRepo(db)
	actionRepo := repository.NewPostActionRepo(db)
	return NewPostService(
		postRepo,
		actionRepo,
		repository.NewUserFollowRepo(db),
		NewPostActionService(actionRepo, postRepo),
	)
}

func TestCreateAndGetPost(t *testing.T) {
	db := newTestEnv(t)
	svc := newPostService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")

	created, err := svc.CreatePost(ctx, alice.ID, &dto.PostCreateDTO{Content: "hello world"})
	require.NoError(t, err)
	require.Equal(t, "hello world", created.Content)
	require.Equal(t, "alice", created.Nickname)

	got, err := svc.GetPostDetail(ctx, created.ID, 0)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
}

func TestRepostRequiresExistingParent(t *testing.T) {
	db := newTestEnv(t)
	svc := newPostService(db)

	alice := seedUser(t, db, "alice")
	missing := uint64(999)

	_, err := svc.CreatePost(context.Background(), alice.ID, &dto.PostCreateDTO{
		Content:  "look at this",
		RepostID: &missing,
	})
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestRepostCarriesParent(t *testing.T) {
	db := newTestEnv(t)
	svc := newPostService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	parent, err := svc.CreatePost(ctx, alice.ID, &dto.PostCreateDTO{Content: "original"})
	require.NoError(t, err)

	repost, err := svc.CreatePost(ctx, bob.ID, &dto.PostCreateDTO{
		Content:  "look at this",
		RepostID: &parent.ID,
	})
	require.NoError(t, err)

	got, err := svc.GetPostDetail(ctx, repost.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, got.Repost)
	require.Equal(t, "original", got.Repost.Content)
	require.Equal(t, "alice", got.Repost.Nickname)
}

func TestFeedPaginationHasMore(t *testing.T) {
	db := newTestEnv(t)
	svc := newPostService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	for i := 0; i < 5; i++ {
		_, err := svc.CreatePost(ctx, alice.ID, &dto.PostCreateDTO{Content: fmt.Sprintf("post %d", i)})
		require.NoError(t, err)
	}

	page1, err := svc.GetFeed(ctx, 0, 1, 3)
	require.NoError(t, err)
	require.Len(t, page1.List, 3)
	require.True(t, page1.HasMore)

	page2, err := svc.GetFeed(ctx, 0, 2, 3)
	require.NoError(t, err)
	require.Len(t, page2.List, 2)
	require.False(t, page2.HasMore)
}

func TestFollowingFeedOnlyShowsFollowed(t *testing.T) {
	db := newTestEnv(t)
	svc := newPostService(db)
	followSvc := NewUserFollowService(repository.NewUserFollowRepo(db), repository.NewUserRepo(db))
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	_, err := svc.CreatePost(ctx, bob.ID, &dto.PostCreateDTO{Content: "from bob"})
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, carol.ID, &dto.PostCreateDTO{Content: "from carol"})
	require.NoError(t, err)

	_, err = followSvc.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	feed, err := svc.GetFollowingFeed(ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, feed.List, 1)
	require.Equal(t, "from bob", feed.List[0].Content)

	// 没关注任何人时关注流为空
	feed, err = svc.GetFollowingFeed(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	require.Empty(t, feed.List)
	require.False(t, feed.HasMore)
}

func TestDeletePostRequiresOwner(t *testing.T) {
	db := newTestEnv(t)
	svc := newPostService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	post, err := svc.CreatePost(ctx, alice.ID, &dto.PostCreateDTO{Content: "mine"})
	require.NoError(t, err)

	err = svc.DeletePost(ctx, bob.ID, post.ID)
	require.ErrorIs(t, err, UnauthorizedError)

	require.NoError(t, svc.DeletePost(ctx, alice.ID, post.ID))

	_, err = svc.GetPostDetail(ctx, post.ID, 0)
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestFeedMarksViewerLikes(t *testing.T) {
	db := newTestEnv(t)
	svc := newPostService(db)
	actionSvc := NewPostActionService(repository.NewPostActionRepo(db), repository.NewPostRepo(db))
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	post, err := svc.CreatePost(ctx, alice.ID, &dto.PostCreateDTO{Content: "hello"})
	require.NoError(t, err)

	_, err = actionSvc.TogglePostLike(ctx, bob.ID, post.ID)
	require.NoError(t, err)

	feed, err := svc.GetFeed(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, feed.List, 1)
	require.True(t, feed.List[0].IsLiked)

	feed, err = svc.GetFeed(ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	require.False(t, feed.List[0].IsLiked)
}

func TestPostDetailCountsFollowRelations(t *testing.T) {
	db := newTestEnv(t)
	svc := newPostService(db)
	actionSvc := NewPostActionService(repository.NewPostActionRepo(db), repository.NewPostRepo(db))
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	post, err := svc.CreatePost(ctx, alice.ID, &dto.PostCreateDTO{Content: "hello"})
	require.NoError(t, err)
	require.Zero(t, post.LikesCount)

	// 点赞后立刻读详情，计数不等定时任务回填
	action, err := actionSvc.TogglePostLike(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	require.Equal(t, ActionLiked, action)

	got, err := svc.GetPostDetail(ctx, post.ID, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, got.LikesCount)

	err = actionSvc.CreateComment(ctx, bob.ID, &dto.CommentCreateDTO{
		PostID:  post.ID,
		Content: "nice",
	})
	require.NoError(t, err)

	got, err = svc.GetPostDetail(ctx, post.ID, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, got.CommentsCount)

	// 取消点赞同样即时回落
	action, err = actionSvc.TogglePostLike(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	require.Equal(t, ActionUnliked, action)

	got, err = svc.GetPostDetail(ctx, post.ID, 0)
	require.NoError(t, err)
	require.Zero(t, got.LikesCount)
}

func TestGetLikedPostsTracksToggles(t *testing.T) {
	db := newTestEnv(t)
	svc := newPostService(db)
	actionSvc := NewPostActionService(repository.NewPostActionRepo(db), repository.NewPostRepo(db))
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	var postIDs []uint64
	for i := 0; i < 3; i++ {
		post, err := svc.CreatePost(ctx, alice.ID, &dto.PostCreateDTO{
			Content: fmt.Sprintf("post %d", i),
		})
		require.NoError(t, err)
		postIDs = append(postIDs, post.ID)
	}

	for _, id := range postIDs {
		_, err := actionSvc.TogglePostLike(ctx, bob.ID, id)
		require.NoError(t, err)
	}

	liked, err := svc.GetLikedPosts(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, liked.List, 3)
	require.False(t, liked.HasMore)
	for _, item := range liked.List {
		require.True(t, item.IsLiked)
	}

	// 取消一个赞后立刻从列表消失
	_, err = actionSvc.TogglePostLike(ctx, bob.ID, postIDs[1])
	require.NoError(t, err)

	liked, err = svc.GetLikedPosts(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, liked.List, 2)
	for _, item := range liked.List {
		require.NotEqual(t, postIDs[1], item.ID)
	}

	// 没赞过任何帖子时返回空列表
	liked, err = svc.GetLikedPosts(ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	require.Empty(t, liked.List)
}
