package model

import (
	"time"
)

type Post struct {
	ID            uint64    `gorm:"primaryKey"`
	UserID        uint64    `gorm:"not null;index:idx_user_id" json:"user_id"`
	Content       string    `gorm:"type:varchar(2000);not null" json:"content"`
	ImageURL      string    `gorm:"type:varchar(255)" json:"image_url"`
	RepostID      *uint64   `gorm:"index:idx_repost_id" json:"repost_id"` // 转发的原帖，删除原帖时置空而非级联删除
	LikesCount    int       `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int       `gorm:"not null;default:0" json:"comments_count"`
	IsDeleted     bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// 关联关系
	User   User  `gorm:"foreignKey:UserID;references:ID"`
	Repost *Post `gorm:"foreignKey:RepostID;references:ID;constraint:OnDelete:SET NULL"`
}

func (Post) TableName() string {
	return "posts"
}
