package dto

// PostCreateDTO 发帖请求
type PostCreateDTO struct {
	Content  string  `json:"content" binding:"required,max=2000"`
	ImageURL string  `json:"image_url"`
	RepostID *uint64 `json:"repost_id"`
}

// PostDTO 帖子详情
type PostDTO struct {
	ID            uint64   `json:"id"`
	UserID        uint64   `json:"user_id"`
	Nickname      string   `json:"nickname"`
	AvatarURL     string   `json:"avatar_url"`
	Content       string   `json:"content"`
	ImageURL      string   `json:"image_url"`
	Repost        *PostDTO `json:"repost,omitempty"`
	LikesCount    int64    `json:"likes_count"`
	CommentsCount int64    `json:"comments_count"`
	IsLiked       bool     `json:"is_liked"`
	CreatedAt     string   `json:"created_at"`
}

// PostListDTO 帖子分页列表
type PostListDTO struct {
	List    []*PostDTO `json:"list"`
	HasMore bool       `json:"has_more"`
}
