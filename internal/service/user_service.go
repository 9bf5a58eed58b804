package service

import (
	"Finvisor/internal/api/dto"
	"Finvisor/internal/model"
	"Finvisor/internal/pkg/consts"
	"Finvisor/internal/pkg/minio"
	"Finvisor/internal/pkg/redis"
	"Finvisor/internal/pkg/security"
	"Finvisor/internal/repository"
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

const userHomeCacheExpiration = 10 * time.Minute

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterDTO) (string, error)
	Login(ctx context.Context, req *dto.CredentialDTO) (string, error)
	// Logout 把 token 签名加入拒绝名单，直到其自然过期
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, userID uint64) (*dto.UserDTO, error)
	GetUserHome(ctx context.Context, userID, viewerID uint64) (*dto.UserHomeDTO, error)
	UpdateUserInfo(ctx context.Context, userID uint64, req *dto.UserUpdateDTO) error
	UpdateAvatar(ctx context.Context, userID uint64, objectName string) error
}

type userServiceImpl struct {
	userRepo      repository.UserRepo
	followService UserFollowService
}

func NewUserService(
	userRepo repository.UserRepo,
	followService UserFollowService,
) UserService {
	return &userServiceImpl{
		userRepo:      userRepo,
		followService: followService,
	}
}

func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterDTO) (string, error) {
	if exist, err := s.userRepo.GetUserByUsername(ctx, req.Username); err != nil {
		return "", err
	} else if exist != nil {
		return "", ErrUserUsernameExist
	}
	if exist, err := s.userRepo.GetUserByEmail(ctx, req.Email); err != nil {
		return "", err
	} else if exist != nil {
		return "", ErrUserEmailExist
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return "", err
	}

	nickname := req.Nickname
	if nickname == "" {
		nickname = req.Username
	}

	user := &model.User{
		Username: &req.Username,
		Email:    &req.Email,
		Password: &hashed,
	}
	detail := &model.UserDetail{
		Nickname:  nickname,
		AvatarURL: consts.DefaultAvatarURL,
	}
	if err = s.userRepo.CreateUser(ctx, user, detail); err != nil {
		if isDuplicateError(err) {
			return "", ErrUserUsernameExist
		}
		return "", err
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "username", req.Username)
	return security.GenerateToken(user.ID)
}

func (s *userServiceImpl) Login(ctx context.Context, req *dto.CredentialDTO) (string, error) {
	var (
		user *model.User
		err  error
	)
	switch {
	case req.Username != nil:
		user, err = s.userRepo.GetUserByUsername(ctx, *req.Username)
	case req.Email != nil:
		user, err = s.userRepo.GetUserByEmail(ctx, *req.Email)
	default:
		return "", ErrMissingLoginCredentials
	}
	if err != nil {
		return "", err
	}
	if user == nil || user.Password == nil {
		return "", ErrUserNotFound
	}

	if err = security.CheckPasswordHash(req.Password, *user.Password); err != nil {
		return "", ErrPasswordIncorrect
	}
	return security.GenerateToken(user.ID)
}

func (s *userServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return UnauthorizedError
	}
	return redis.SetWithExpiration(ctx, consts.TokenDenyKey+signature, 1, security.JWTExpirationTime)
}

func (s *userServiceImpl) GetUserInfo(ctx context.Context, userID uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.toUserDTO(user), nil
}

// GetUserHome 主页聚合视图，用户资料和计数整体缓存，关注状态按访问者实时查
func (s *userServiceImpl) GetUserHome(ctx context.Context, userID, viewerID uint64) (*dto.UserHomeDTO, error) {
	home := &dto.UserHomeDTO{}
	cacheKey := consts.UserHomeInfoKey + strconv.FormatUint(userID, 10)

	cached, err := redis.GetValue(ctx, cacheKey)
	if err == nil && cached != "" {
		if err = json.Unmarshal([]byte(cached), home); err == nil {
			home.IsFollowing, err = s.followService.IsFollowing(ctx, viewerID, userID)
			return home, err
		}
		slog.WarnContext(ctx, "user home cache decode failed", "user_id", userID, "error", err)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	home.UserDTO = *s.toUserDTO(user)
	if home.FollowerCount, err = s.followService.GetFollowerCount(ctx, userID); err != nil {
		return nil, err
	}
	if home.FollowingCount, err = s.followService.GetFollowingCount(ctx, userID); err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(home); err == nil {
		_ = redis.SetWithExpiration(ctx, cacheKey, string(payload), userHomeCacheExpiration)
	}

	home.IsFollowing, err = s.followService.IsFollowing(ctx, viewerID, userID)
	return home, err
}

func (s *userServiceImpl) UpdateUserInfo(ctx context.Context, userID uint64, req *dto.UserUpdateDTO) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	// 在现有资料上覆盖非空字段，避免把头像等未提交字段抹掉
	detail := user.UserDetail
	if err = copier.CopyWithOption(&detail, req, copier.Option{IgnoreEmpty: true}); err != nil {
		return err
	}
	if err = s.userRepo.UpdateUserDetail(ctx, &detail); err != nil {
		return err
	}

	return redis.DeleteKey(ctx, consts.UserHomeInfoKey+strconv.FormatUint(userID, 10))
}

func (s *userServiceImpl) UpdateAvatar(ctx context.Context, userID uint64, objectName string) error {
	if err := s.userRepo.UpdateAvatar(ctx, userID, objectName); err != nil {
		return err
	}
	return redis.DeleteKey(ctx, consts.UserHomeInfoKey+strconv.FormatUint(userID, 10))
}

func (s *userServiceImpl) toUserDTO(user *model.User) *dto.UserDTO {
	res := &dto.UserDTO{
		UserID:    user.ID,
		Nickname:  user.UserDetail.Nickname,
		AvatarURL: minio.GetPublicURL(user.UserDetail.AvatarURL),
		Bio:       user.UserDetail.Bio,
		CreatedAt: user.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if user.Username != nil {
		res.Username = *user.Username
	}
	return res
}
