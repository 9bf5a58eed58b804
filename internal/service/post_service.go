package service

import (
	"Finvisor/internal/api/dto"
	"Finvisor/internal/model"
	"Finvisor/internal/pkg/minio"
	"Finvisor/internal/repository"
	"context"
	"time"
)

const DefaultPageSize = 20

type PostService interface {
	CreatePost(ctx context.Context, userID uint64, req *dto.PostCreateDTO) (*dto.PostDTO, error)
	GetPostDetail(ctx context.Context, postID, viewerID uint64) (*dto.PostDTO, error)
	GetFeed(ctx context.Context, viewerID uint64, page, pageSize int) (*dto.PostListDTO, error)
	GetFollowingFeed(ctx context.Context, viewerID uint64, page, pageSize int) (*dto.PostListDTO, error)
	GetPostsByUser(ctx context.Context, userID, viewerID uint64, page, pageSize int) (*dto.PostListDTO, error)
	GetLikedPosts(ctx context.Context, userID uint64, page, pageSize int) (*dto.PostListDTO, error)
	DeletePost(ctx context.Context, userID, postID uint64) error
}

type postServiceImpl struct {
	postRepo   repository.PostRepo
	actionRepo repository.PostActionRepo
	followRepo repository.UserFollowRepo
	actionSvc  PostActionService
}

func NewPostService(
	postRepo repository.PostRepo,
	actionRepo repository.PostActionRepo,
	followRepo repository.UserFollowRepo,
	actionSvc PostActionService,
) PostService {
	return &postServiceImpl{
		postRepo:   postRepo,
		actionRepo: actionRepo,
		followRepo: followRepo,
		actionSvc:  actionSvc,
	}
}

func (s *postServiceImpl) CreatePost(ctx context.Context, userID uint64, req *dto.PostCreateDTO) (*dto.PostDTO, error) {
	if req.RepostID != nil {
		parent, err := s.postRepo.GetPost(ctx, *req.RepostID)
		if err != nil || parent == nil {
			return nil, ErrPostNotFound
		}
	}

	post := &model.Post{
		UserID:    userID,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		RepostID:  req.RepostID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	created, err := s.postRepo.GetPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return s.toPostDTO(ctx, created, nil)
}

func (s *postServiceImpl) GetPostDetail(ctx context.Context, postID, viewerID uint64) (*dto.PostDTO, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	likedMap, err := s.likedMap(ctx, viewerID, []*model.Post{post})
	if err != nil {
		return nil, err
	}
	return s.toPostDTO(ctx, post, likedMap)
}

func (s *postServiceImpl) GetFeed(ctx context.Context, viewerID uint64, page, pageSize int) (*dto.PostListDTO, error) {
	return s.buildList(ctx, viewerID, pageSize, func(limit, offset int) ([]*model.Post, error) {
		return s.postRepo.ListPosts(ctx, limit, offset)
	}, page)
}

// GetFollowingFeed 只看关注的人发的帖子
func (s *postServiceImpl) GetFollowingFeed(ctx context.Context, viewerID uint64, page, pageSize int) (*dto.PostListDTO, error) {
	followingIDs, err := s.followRepo.GetFollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if len(followingIDs) == 0 {
		return &dto.PostListDTO{List: []*dto.PostDTO{}}, nil
	}
	return s.buildList(ctx, viewerID, pageSize, func(limit, offset int) ([]*model.Post, error) {
		return s.postRepo.ListPostsByUserIDs(ctx, followingIDs, limit, offset)
	}, page)
}

func (s *postServiceImpl) GetPostsByUser(ctx context.Context, userID, viewerID uint64, page, pageSize int) (*dto.PostListDTO, error) {
	return s.buildList(ctx, viewerID, pageSize, func(limit, offset int) ([]*model.Post, error) {
		return s.postRepo.ListPostsByUserID(ctx, userID, limit, offset)
	}, page)
}

// GetLikedPosts 按点赞时间倒序列出用户赞过的帖子
func (s *postServiceImpl) GetLikedPosts(ctx context.Context, userID uint64, page, pageSize int) (*dto.PostListDTO, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	ids, err := s.actionRepo.GetLikedPostIDs(ctx, userID, pageSize+1, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	hasMore := len(ids) > pageSize
	if hasMore {
		ids = ids[:pageSize]
	}
	if len(ids) == 0 {
		return &dto.PostListDTO{List: []*dto.PostDTO{}}, nil
	}

	posts, err := s.postRepo.GetPostByIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	// IN 查询不保证顺序，按点赞顺序重排；帖子已删除时点赞记录仍在，跳过即可
	byID := make(map[uint64]*model.Post, len(posts))
	likedMap := make(map[uint64]bool, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
		likedMap[p.ID] = true
	}

	list := make([]*dto.PostDTO, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		item, err := s.toPostDTO(ctx, p, likedMap)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return &dto.PostListDTO{List: list, HasMore: hasMore}, nil
}

func (s *postServiceImpl) DeletePost(ctx context.Context, userID, postID uint64) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != userID {
		return UnauthorizedError
	}
	return s.postRepo.DeletePost(ctx, postID)
}

// buildList 多取一条判断还有没有下一页
func (s *postServiceImpl) buildList(ctx context.Context, viewerID uint64, pageSize int, fetch func(limit, offset int) ([]*model.Post, error), page int) (*dto.PostListDTO, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	posts, err := fetch(pageSize+1, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	hasMore := len(posts) > pageSize
	if hasMore {
		posts = posts[:pageSize]
	}

	likedMap, err := s.likedMap(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.PostDTO, 0, len(posts))
	for _, p := range posts {
		item, err := s.toPostDTO(ctx, p, likedMap)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return &dto.PostListDTO{List: list, HasMore: hasMore}, nil
}

func (s *postServiceImpl) likedMap(ctx context.Context, viewerID uint64, posts []*model.Post) (map[uint64]bool, error) {
	res := make(map[uint64]bool, len(posts))
	if viewerID == 0 || len(posts) == 0 {
		return res, nil
	}
	for _, p := range posts {
		liked, err := s.actionRepo.CheckPostLikeExists(ctx, viewerID, p.ID)
		if err != nil {
			return nil, err
		}
		res[p.ID] = liked
	}
	return res, nil
}

func (s *postServiceImpl) toPostDTO(ctx context.Context, post *model.Post, likedMap map[uint64]bool) (*dto.PostDTO, error) {
	if post == nil {
		return nil, nil
	}

	// 计数走缓存实时口径，posts 表上的冗余列只由定时任务回填
	likesCount, err := s.actionSvc.GetPostLikeCount(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	commentsCount, err := s.actionSvc.GetPostCommentCount(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	res := &dto.PostDTO{
		ID:            post.ID,
		UserID:        post.UserID,
		Nickname:      post.User.UserDetail.Nickname,
		AvatarURL:     minio.GetPublicURL(post.User.UserDetail.AvatarURL),
		Content:       post.Content,
		ImageURL:      minio.GetPublicURL(post.ImageURL),
		LikesCount:    likesCount,
		CommentsCount: commentsCount,
		CreatedAt:     post.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if likedMap != nil {
		res.IsLiked = likedMap[post.ID]
	}
	if post.Repost != nil && !post.Repost.IsDeleted {
		res.Repost, err = s.toPostDTO(ctx, post.Repost, nil)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}
