package repository

import (
	"Finvisor/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error)
	ListPosts(ctx context.Context, limit, offset int) ([]*model.Post, error)
	ListPostsByUserIDs(ctx context.Context, userIDs []uint64, limit, offset int) ([]*model.Post, error)
	ListPostsByUserID(ctx context.Context, userID uint64, limit, offset int) ([]*model.Post, error)
	DeletePost(ctx context.Context, id uint64) error
	UpdatePostCounts(ctx context.Context, id uint64, likes, comments int64) error
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

func (s PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

func (s PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).
		Preload("User.UserDetail").
		Preload("Repost.User.UserDetail").
		Where("is_deleted = ?", false).
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (s PostRepoImpl) GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.db.WithContext(ctx).
		Preload("User.UserDetail").
		Preload("Repost.User.UserDetail").
		Where("id IN ? AND is_deleted = ?", ids, false).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s PostRepoImpl) ListPosts(ctx context.Context, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.db.WithContext(ctx).
		Preload("User.UserDetail").
		Preload("Repost.User.UserDetail").
		Where("is_deleted = ?", false).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (s PostRepoImpl) ListPostsByUserIDs(ctx context.Context, userIDs []uint64, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	if len(userIDs) == 0 {
		return posts, nil
	}
	err := s.db.WithContext(ctx).
		Preload("User.UserDetail").
		Preload("Repost.User.UserDetail").
		Where("user_id IN ? AND is_deleted = ?", userIDs, false).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (s PostRepoImpl) ListPostsByUserID(ctx context.Context, userID uint64, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.db.WithContext(ctx).
		Preload("User.UserDetail").
		Preload("Repost.User.UserDetail").
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

// DeletePost 软删帖子，转发它的帖子保留，只是失去可见的原帖
func (s PostRepoImpl) DeletePost(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Update("is_deleted", true).Error
}

func (s PostRepoImpl) UpdatePostCounts(ctx context.Context, id uint64, likes, comments int64) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"likes_count":    likes,
			"comments_count": comments,
		}).Error
}
