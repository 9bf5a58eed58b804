package dto

// RegisterDTO 注册
type RegisterDTO struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=64"`
	Nickname string `json:"nickname" binding:"max=50"`
}

// CredentialDTO 登录凭据，用户名或邮箱二选一
type CredentialDTO struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password string  `json:"password" binding:"required"`
}

// UserDTO 用户
type UserDTO struct {
	UserID    uint64 `json:"user_id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
	CreatedAt string `json:"created_at,omitempty"`
}

// UserUpdateDTO 更新资料
type UserUpdateDTO struct {
	Nickname string `json:"nickname" binding:"max=50"`
	Bio      string `json:"bio" binding:"max=200"`
}

// UserHomeDTO 用户主页聚合视图
type UserHomeDTO struct {
	UserDTO
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
	IsFollowing    bool  `json:"is_following"`
}

// FollowUserDTO 关注/粉丝列表项
type FollowUserDTO struct {
	UserID     uint64 `json:"user_id"`
	Nickname   string `json:"nickname"`
	AvatarURL  string `json:"avatar_url"`
	FollowedAt string `json:"followed_at"`
}
