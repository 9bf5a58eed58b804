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

	redisv9 "github.com/redis/go-redis/v9"
)

const (
	ActionFollow   = "follow"
	ActionUnfollow = "unfollow"
)

type UserFollowService interface {
	// ToggleFollow 翻转关注状态，返回本次动作 follow / unfollow
	ToggleFollow(ctx context.Context, followerID, followingID uint64) (string, error)
	IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error)
	GetFollowerCount(ctx context.Context, userID uint64) (int64, error)
	GetFollowingCount(ctx context.Context, userID uint64) (int64, error)
	GetFollowers(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.FollowUserDTO, error)
	GetFollowing(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.FollowUserDTO, error)
}

type userFollowServiceImpl struct {
	followRepo repository.UserFollowRepo
	userRepo   repository.UserRepo
}

func NewUserFollowService(
	followRepo repository.UserFollowRepo,
	userRepo repository.UserRepo,
) UserFollowService {
	return &userFollowServiceImpl{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

func (s *userFollowServiceImpl) ToggleFollow(ctx context.Context, followerID, followingID uint64) (string, error) {
	if followerID == followingID {
		return "", ErrUserFollowSelf
	}

	target, err := s.userRepo.GetUserByID(ctx, followingID)
	if err != nil || target == nil {
		return "", ErrUserNotFound
	}

	removed, err := s.followRepo.RemoveUserFollow(ctx, followerID, followingID)
	if err != nil {
		return "", err
	}

	action := ActionUnfollow
	if !removed {
		inserted, err := s.followRepo.InsertUserFollow(ctx, &model.UserFollow{
			FollowerID:  followerID,
			FollowingID: followingID,
			CreatedAt:   time.Now(),
		})
		if err != nil {
			if isDuplicateError(err) {
				return "", ErrActionConflict
			}
			return "", err
		}
		if !inserted {
			return "", ErrActionConflict
		}
		action = ActionFollow
	}

	// 翻转会同时改变双方的两个计数和目标主页缓存
	_ = redis.DeleteKey(ctx,
		consts.UserFollowingCountKey+strconv.FormatUint(followerID, 10),
		consts.UserFollowerCountKey+strconv.FormatUint(followingID, 10),
		consts.UserHomeInfoKey+strconv.FormatUint(followingID, 10),
	)
	return action, nil
}

func (s *userFollowServiceImpl) IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error) {
	if followerID == 0 {
		return false, nil
	}
	follow, err := s.followRepo.GetUserFollow(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	return follow != nil, nil
}

func (s *userFollowServiceImpl) GetFollowerCount(ctx context.Context, userID uint64) (int64, error) {
	return s.getCountCached(ctx, consts.UserFollowerCountKey+strconv.FormatUint(userID, 10), func() (int64, error) {
		return s.followRepo.GetUserFollowerCount(ctx, userID)
	})
}

func (s *userFollowServiceImpl) GetFollowingCount(ctx context.Context, userID uint64) (int64, error) {
	return s.getCountCached(ctx, consts.UserFollowingCountKey+strconv.FormatUint(userID, 10), func() (int64, error) {
		return s.followRepo.GetUserFollowingCount(ctx, userID)
	})
}

func (s *userFollowServiceImpl) GetFollowers(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.FollowUserDTO, error) {
	follows, err := s.followRepo.GetUserFollowers(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.buildFollowList(ctx, follows, func(f *model.UserFollow) uint64 { return f.FollowerID })
}

func (s *userFollowServiceImpl) GetFollowing(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.FollowUserDTO, error) {
	follows, err := s.followRepo.GetUserFollowing(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.buildFollowList(ctx, follows, func(f *model.UserFollow) uint64 { return f.FollowingID })
}

// buildFollowList 批量补齐列表里对端用户的资料
func (s *userFollowServiceImpl) buildFollowList(ctx context.Context, follows []*model.UserFollow, pick func(*model.UserFollow) uint64) ([]*dto.FollowUserDTO, error) {
	ids := make([]uint64, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, pick(f))
	}

	details, err := s.userRepo.GetUserDetails(ctx, ids)
	if err != nil {
		return nil, err
	}
	detailMap := make(map[uint64]*model.UserDetail, len(details))
	for _, d := range details {
		detailMap[d.UserID] = d
	}

	res := make([]*dto.FollowUserDTO, 0, len(follows))
	for _, f := range follows {
		item := &dto.FollowUserDTO{
			UserID:     pick(f),
			FollowedAt: f.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if d, ok := detailMap[item.UserID]; ok {
			item.Nickname = d.Nickname
			item.AvatarURL = minio.GetPublicURL(d.AvatarURL)
		}
		res = append(res, item)
	}
	return res, nil
}

func (s *userFollowServiceImpl) getCountCached(ctx context.Context, key string, fetchDB func() (int64, error)) (int64, error) {
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
