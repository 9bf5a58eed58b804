package repository

import (
	"Finvisor/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *model.User, detail *model.UserDetail) error
	GetUserByID(ctx context.Context, id uint64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserDetails(ctx context.Context, ids []uint64) ([]*model.UserDetail, error)
	UpdateUserDetail(ctx context.Context, detail *model.UserDetail) error
	UpdateAvatar(ctx context.Context, id uint64, objectName string) error
}

type UserRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &UserRepoImpl{db: db}
}

func (s *UserRepoImpl) CreateUser(ctx context.Context, user *model.User, detail *model.UserDetail) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		detail.UserID = user.ID
		return tx.Create(detail).Error
	})
}

func (s *UserRepoImpl) GetUserByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Preload("UserDetail").
		Where("id = ? AND is_delete = ?", id, false).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserRepoImpl) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getUserByCredential(ctx, "username = ?", username)
}

func (s *UserRepoImpl) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUserByCredential(ctx, "email = ?", email)
}

func (s *UserRepoImpl) getUserByCredential(ctx context.Context, cond string, arg string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Preload("UserDetail").
		Where(cond, arg).
		Where("is_delete = ?", false).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserRepoImpl) GetUserDetails(ctx context.Context, ids []uint64) ([]*model.UserDetail, error) {
	var details []*model.UserDetail
	if len(ids) == 0 {
		return details, nil
	}
	err := s.db.WithContext(ctx).
		Where("user_id IN ?", ids).
		Find(&details).Error
	return details, err
}

func (s *UserRepoImpl) UpdateUserDetail(ctx context.Context, detail *model.UserDetail) error {
	return s.db.WithContext(ctx).Model(&model.UserDetail{}).
		Where("user_id = ?", detail.UserID).
		Updates(map[string]interface{}{
			"nickname":   detail.Nickname,
			"bio":        detail.Bio,
			"avatar_url": detail.AvatarURL,
		}).Error
}

func (s *UserRepoImpl) UpdateAvatar(ctx context.Context, id uint64, objectName string) error {
	return s.db.WithContext(ctx).Model(&model.UserDetail{}).
		Where("user_id = ?", id).
		Update("avatar_url", objectName).Error
}
