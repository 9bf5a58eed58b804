package model

import "time"

type UserDetail struct {
	UserID    uint64 `gorm:"primaryKey" json:"userId"`
	Nickname  string `gorm:"type:varchar(50)" json:"nickname"`
	AvatarURL string `gorm:"type:varchar(255)" json:"avatarUrl"`
	Bio       string `gorm:"type:varchar(200)" json:"bio"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserDetail) TableName() string {
	return "user_details"
}
