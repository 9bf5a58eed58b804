package service

import (
	"Finvisor/internal/api/config"
	"Finvisor/internal/model"
	"Finvisor/internal/pkg/redis"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestEnv(t *testing.T) *gorm.DB {
	t.Helper()

	config.Cfg = &config.Config{
		Quote: config.QuoteConfig{GuardTTL: 60},
	}

	mr := miniredis.RunT(t)
	redis.Rdb = redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = redis.Rdb.Close()
	})

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
