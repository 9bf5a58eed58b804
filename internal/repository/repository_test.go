package repository

import (
	"Finvisor/internal/model"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.User{},
		&model.UserDetail{},
		&model.UserFollow{},
		&model.Post{},
		&model.PostComment{},
		&model.Like{},
		&model.StockQuote{},
		&model.StockDaily{},
	)
	require.NoError(t, err)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	password := "hashed"
	user := &model.User{
		Username: &username,
		Password: &password,
		UserDetail: model.UserDetail{
			Nickname: username,
		},
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, userID uint64, content string) *model.Post {
	t.Helper()

	post := &model.Post{UserID: userID, Content: content}
	require.NoError(t, db.Create(post).Error)
	return post
}
