package service

import (
	"Finvisor/internal/api/dto"
	"Finvisor/internal/model"
	"Finvisor/internal/pkg/consts"
	"Finvisor/internal/pkg/minio"
	"Finvisor/internal/pkg/redis"
	"Finvisor/internal/repository"
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	redisv9 "github.com/redis/go-redis/v9"
)

const (
	ActionLiked   = "liked"
	ActionUnliked = "unliked"
)

const countCacheExpiration = time.Hour

type PostActionService interface {
	// TogglePostLike 翻转点赞状态，返回本次动作 liked / unliked
	TogglePostLike(ctx context.Context, userID, postID uint64) (string, error)
	ToggleCommentLike(ctx context.Context, userID, commentID uint64) (string, error)
	GetPostLikeCount(ctx context.Context, postID uint64) (int64, error)
	GetCommentLikeCount(ctx context.Context, commentID uint64) (int64, error)
	GetPostCommentCount(ctx context.Context, postID uint64) (int64, error)
	IsPostLiked(ctx context.Context, userID, postID uint64) (bool, error)

	CreateComment(ctx context.Context, userID uint64, req *dto.CommentCreateDTO) error
	DeleteComment(ctx context.Context, userID, commentID uint64) error
	GetCommentsByPostID(ctx context.Context, postID uint64, viewerID uint64, page, pageSize int) ([]*dto.CommentDTO, error)
}

type postActionServiceImpl struct {
	actionRepo repository.PostActionRepo
	postRepo   repository.PostRepo
}

func NewPostActionService(
	actionRepo repository.PostActionRepo,
	postRepo repository.PostRepo,
) PostActionService {
	return &postActionServiceImpl{
		actionRepo: actionRepo,
		postRepo:   postRepo,
	}
}

func (s *postActionServiceImpl) TogglePostLike(ctx context.Context, userID, postID uint64) (string, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil || post == nil {
		return "", ErrPostNotFound
	}

	action, err := s.flip(
		func() (bool, error) { return s.actionRepo.RemovePostLike(ctx, userID, postID) },
		func() (bool, error) { return s.actionRepo.InsertPostLike(ctx, userID, postID) },
	)
	if err != nil {
		return "", err
	}

	s.invalidateCounts(ctx, consts.PostLikeKey+strconv.FormatUint(postID, 10))
	s.markPostDirty(ctx, postID)
	return action, nil
}

func (s *postActionServiceImpl) ToggleCommentLike(ctx context.Context, userID, commentID uint64) (string, error) {
	comment, err := s.actionRepo.GetCommentByID(ctx, commentID)
	if err != nil || comment == nil {
		return "", ErrPostCommentNotFound
	}

	action, err := s.flip(
		func() (bool, error) { return s.actionRepo.RemoveCommentLike(ctx, userID, commentID) },
		func() (bool, error) { return s.actionRepo.InsertCommentLike(ctx, userID, commentID) },
	)
	if err != nil {
		return "", err
	}

	s.invalidateCounts(ctx, consts.CommentLikeKey+strconv.FormatUint(commentID, 10))
	return action, nil
}

// flip 先按键删除，删不到再插入，插入失败说明并发翻转撞车
// 两个方向各是一条语句，不存在先查后写的窗口
func (s *postActionServiceImpl) flip(remove func() (bool, error), insert func() (bool, error)) (string, error) {
	removed, err := remove()
	if err != nil {
		return "", err
	}
	if removed {
		return ActionUnliked, nil
	}

	inserted, err := insert()
	if err != nil {
		if isDuplicateError(err) {
			return "", ErrActionConflict
		}
		return "", err
	}
	if !inserted {
		return "", ErrActionConflict
	}
	return ActionLiked, nil
}

func (s *postActionServiceImpl) GetPostLikeCount(ctx context.Context, postID uint64) (int64, error) {
	return s.getCountCached(ctx, consts.PostLikeKey+strconv.FormatUint(postID, 10), func() (int64, error) {
		return s.actionRepo.GetLikeCountByPostID(ctx, postID)
	})
}

func (s *postActionServiceImpl) GetCommentLikeCount(ctx context.Context, commentID uint64) (int64, error) {
	return s.getCountCached(ctx, consts.CommentLikeKey+strconv.FormatUint(commentID, 10), func() (int64, error) {
		return s.actionRepo.GetCommentLikeCount(ctx, commentID)
	})
}

func (s *postActionServiceImpl) GetPostCommentCount(ctx context.Context, postID uint64) (int64, error) {
	return s.getCountCached(ctx, consts.PostCommentKey+strconv.FormatUint(postID, 10), func() (int64, error) {
		return s.actionRepo.GetCommentCountByPostID(ctx, postID)
	})
}

func (s *postActionServiceImpl) IsPostLiked(ctx context.Context, userID, postID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.actionRepo.CheckPostLikeExists(ctx, userID, postID)
}

func (s *postActionServiceImpl) CreateComment(ctx context.Context, userID uint64, req *dto.CommentCreateDTO) error {
	post, err := s.postRepo.GetPost(ctx, req.PostID)
	if err != nil || post == nil {
		return ErrPostNotFound
	}

	comment := &model.PostComment{
		PostID:    req.PostID,
		UserID:    userID,
		Content:   req.Content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err = s.actionRepo.CreateComment(ctx, comment); err != nil {
		return err
	}

	s.invalidateCounts(ctx, consts.PostCommentKey+strconv.FormatUint(req.PostID, 10))
	s.markPostDirty(ctx, req.PostID)
	return nil
}

func (s *postActionServiceImpl) DeleteComment(ctx context.Context, userID, commentID uint64) error {
	comment, err := s.actionRepo.GetCommentByID(ctx, commentID)
	if err != nil || comment == nil {
		return ErrPostCommentNotFound
	}

	if comment.UserID != userID {
		return UnauthorizedError
	}

	if err = s.actionRepo.DeleteComment(ctx, commentID); err != nil {
		return err
	}

	s.invalidateCounts(ctx,
		consts.PostCommentKey+strconv.FormatUint(comment.PostID, 10),
		consts.CommentLikeKey+strconv.FormatUint(commentID, 10),
	)
	s.markPostDirty(ctx, comment.PostID)
	return nil
}

func (s *postActionServiceImpl) GetCommentsByPostID(ctx context.Context, postID uint64, viewerID uint64, page, pageSize int) ([]*dto.CommentDTO, error) {
	comments, err := s.actionRepo.GetCommentsByPostID(ctx, postID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}

	likesMap, err := s.batchGetLikeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	isLikedMap, err := s.actionRepo.GetLikedCommentIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.CommentDTO, 0, len(comments))
	for _, c := range comments {
		res = append(res, &dto.CommentDTO{
			ID:         c.ID,
			PostID:     c.PostID,
			UserID:     c.UserID,
			Nickname:   c.User.Nickname,
			AvatarURL:  minio.GetPublicURL(c.User.AvatarURL),
			Content:    c.Content,
			LikesCount: likesMap[c.ID],
			IsLiked:    isLikedMap[c.ID],
			CreatedAt:  c.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return res, nil
}

// batchGetLikeCounts 一轮管道读整页评论的点赞计数缓存，未命中的回源关系表再写回
func (s *postActionServiceImpl) batchGetLikeCounts(ctx context.Context, ids []uint64) (map[uint64]int64, error) {
	likesMap := make(map[uint64]int64, len(ids))
	if len(ids) == 0 {
		return likesMap, nil
	}

	pipe := redis.GetRdbClient().Pipeline()
	cmds := make(map[uint64]*redisv9.StringCmd, len(ids))
	for _, id := range ids {
		cmds[id] = pipe.Get(ctx, consts.CommentLikeKey+strconv.FormatUint(id, 10))
	}
	_, _ = pipe.Exec(ctx)

	var missedIDs []uint64
	for _, id := range ids {
		count, err := cmds[id].Int64()
		if err != nil {
			missedIDs = append(missedIDs, id)
			continue
		}
		likesMap[id] = count
	}
	if len(missedIDs) == 0 {
		return likesMap, nil
	}

	fromDB, err := s.actionRepo.GetCommentLikeCounts(ctx, missedIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range missedIDs {
		count := fromDB[id]
		likesMap[id] = count
		_ = redis.SetWithExpiration(ctx, consts.CommentLikeKey+strconv.FormatUint(id, 10), count, countCacheExpiration)
	}
	return likesMap, nil
}

// getCountCached 计数统一走缓存，未命中时回源关系表再写缓存
func (s *postActionServiceImpl) getCountCached(ctx context.Context, key string, fetchDB func() (int64, error)) (int64, error) {
	count, err := redis.GetInt64(ctx, key)
	if err == nil {
		return count, nil
	}
	if !errors.Is(err, redisv9.Nil) {
		return 0, err
	}
	realCount, err := fetchDB()
	if err != nil {
		return 0, err
	}
	_ = redis.SetWithExpiration(ctx, key, realCount, countCacheExpiration)
	return realCount, nil
}

// invalidateCounts 翻转后删掉计数缓存，下一次读取重新回源，保证计数与关系表一致
func (s *postActionServiceImpl) invalidateCounts(ctx context.Context, keys ...string) {
	_ = redis.DeleteKey(ctx, keys...)
}

func (s *postActionServiceImpl) markPostDirty(ctx context.Context, postID uint64) {
	_ = redis.SAdd(ctx, consts.PostDirtyKey, strconv.FormatUint(postID, 10))
}

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return false
}
