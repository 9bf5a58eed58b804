package model

import (
	"time"
)

// Like 点赞关系，目标是帖子或评论，二选一
// post_id 与 comment_id 有且仅有一个非空，由存储层 CHECK 约束保证
type Like struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_user_post;uniqueIndex:idx_user_comment" json:"userId"`
	PostID    *uint64   `gorm:"uniqueIndex:idx_user_post;index:idx_like_post_id;check:chk_like_target,(post_id IS NULL) <> (comment_id IS NULL)" json:"postId"`
	CommentID *uint64   `gorm:"uniqueIndex:idx_user_comment;index:idx_like_comment_id" json:"commentId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Like) TableName() string {
	return "likes"
}
