package dto

// CommentCreateDTO 创建评论请求
type CommentCreateDTO struct {
	PostID  uint64 `json:"post_id" binding:"required"`
	Content string `json:"content" binding:"required,max=1000"`
}

// CommentDTO 评论返回详情
type CommentDTO struct {
	ID         uint64 `json:"id"`
	PostID     uint64 `json:"post_id"`
	UserID     uint64 `json:"user_id"`
	Nickname   string `json:"nickname"`
	AvatarURL  string `json:"avatar_url"`
	Content    string `json:"content"`
	LikesCount int64  `json:"likes_count"`
	IsLiked    bool   `json:"is_liked"`
	CreatedAt  string `json:"created_at"`
}

// PostActionStateDTO 帖子详情页交互状态
type PostActionStateDTO struct {
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
	IsLiked      bool  `json:"is_liked"`
}

// ToggleDTO 点赞/关注开关结果
type ToggleDTO struct {
	Action string `json:"action"`
}

// ToggleFollowReq 关注开关请求
type ToggleFollowReq struct {
	UserID uint64 `json:"user_id" form:"user_id" binding:"required"`
}
