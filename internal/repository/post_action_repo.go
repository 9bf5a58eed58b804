package repository

import (
	"Finvisor/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostActionRepo interface {
	// InsertPostLike 插入点赞行，已存在时不报错并返回 false
	InsertPostLike(ctx context.Context, userID, postID uint64) (bool, error)
	// RemovePostLike 删除点赞行，返回是否真的删掉了
	RemovePostLike(ctx context.Context, userID, postID uint64) (bool, error)
	CheckPostLikeExists(ctx context.Context, userID, postID uint64) (bool, error)
	GetLikeCountByPostID(ctx context.Context, postID uint64) (int64, error)
	GetLikedPostIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error)

	InsertCommentLike(ctx context.Context, userID, commentID uint64) (bool, error)
	RemoveCommentLike(ctx context.Context, userID, commentID uint64) (bool, error)
	CheckCommentLikeExists(ctx context.Context, userID, commentID uint64) (bool, error)
	GetCommentLikeCount(ctx context.Context, commentID uint64) (int64, error)
	GetCommentLikeCounts(ctx context.Context, commentIDs []uint64) (map[uint64]int64, error)
	GetLikedCommentIDs(ctx context.Context, userID uint64, commentIDs []uint64) (map[uint64]bool, error)

	CreateComment(ctx context.Context, comment *model.PostComment) error
	DeleteComment(ctx context.Context, commentID uint64) error
	GetCommentByID(ctx context.Context, commentID uint64) (*model.PostComment, error)
	GetCommentsByPostID(ctx context.Context, postID uint64, limit, offset int) ([]*model.PostComment, error)
	GetCommentCountByPostID(ctx context.Context, postID uint64) (int64, error)
}

type PostActionRepoImpl struct {
	db *gorm.DB
}

func NewPostActionRepo(db *gorm.DB) PostActionRepo {
	return &PostActionRepoImpl{db}
}

func (s *PostActionRepoImpl) InsertPostLike(ctx context.Context, userID, postID uint64) (bool, error) {
	like := &model.Like{UserID: userID, PostID: &postID, CreatedAt: time.Now()}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *PostActionRepoImpl) RemovePostLike(ctx context.Context, userID, postID uint64) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Like{})
	return res.RowsAffected > 0, res.Error
}

func (s *PostActionRepoImpl) CheckPostLikeExists(ctx context.Context, userID, postID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (s *PostActionRepoImpl) GetLikeCountByPostID(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (s *PostActionRepoImpl) GetLikedPostIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error) {
	var postIDs []uint64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND post_id IS NOT NULL", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Pluck("post_id", &postIDs).Error
	return postIDs, err
}

func (s *PostActionRepoImpl) InsertCommentLike(ctx context.Context, userID, commentID uint64) (bool, error) {
	like := &model.Like{UserID: userID, CommentID: &commentID, CreatedAt: time.Now()}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *PostActionRepoImpl) RemoveCommentLike(ctx context.Context, userID, commentID uint64) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Delete(&model.Like{})
	return res.RowsAffected > 0, res.Error
}

func (s *PostActionRepoImpl) CheckCommentLikeExists(ctx context.Context, userID, commentID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Count(&count).Error
	return count > 0, err
}

func (s *PostActionRepoImpl) GetCommentLikeCount(ctx context.Context, commentID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	return count, err
}

func (s *PostActionRepoImpl) GetCommentLikeCounts(ctx context.Context, commentIDs []uint64) (map[uint64]int64, error) {
	res := make(map[uint64]int64, len(commentIDs))
	if len(commentIDs) == 0 {
		return res, nil
	}
	var rows []struct {
		CommentID uint64
		Cnt       int64
	}
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Select("comment_id, COUNT(*) AS cnt").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		res[r.CommentID] = r.Cnt
	}
	return res, nil
}

func (s *PostActionRepoImpl) GetLikedCommentIDs(ctx context.Context, userID uint64, commentIDs []uint64) (map[uint64]bool, error) {
	res := make(map[uint64]bool, len(commentIDs))
	if userID == 0 || len(commentIDs) == 0 {
		return res, nil
	}
	var liked []uint64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &liked).Error
	if err != nil {
		return nil, err
	}
	for _, id := range liked {
		res[id] = true
	}
	return res, nil
}

func (s *PostActionRepoImpl) CreateComment(ctx context.Context, comment *model.PostComment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

// DeleteComment 软删评论并清掉挂在它上面的点赞行
func (s *PostActionRepoImpl) DeleteComment(ctx context.Context, commentID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.PostComment{}).
			Where("id = ? AND is_deleted = ?", commentID, false).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Where("comment_id = ?", commentID).Delete(&model.Like{}).Error
	})
}

func (s *PostActionRepoImpl) GetCommentByID(ctx context.Context, commentID uint64) (*model.PostComment, error) {
	var comment model.PostComment
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", commentID, false).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID 分页获取帖子的评论
func (s *PostActionRepoImpl) GetCommentsByPostID(ctx context.Context, postID uint64, limit, offset int) ([]*model.PostComment, error) {
	var comments []*model.PostComment
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, err
}

func (s *PostActionRepoImpl) GetCommentCountByPostID(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.PostComment{}).
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Count(&count).Error
	return count, err
}
