package wire

import (
	"Finvisor/internal/api"
	"Finvisor/internal/api/config"
	"Finvisor/internal/api/handler"
	"Finvisor/internal/job"
	"Finvisor/internal/pkg/cron"
	"Finvisor/internal/pkg/market"
	"Finvisor/internal/repository"
	"Finvisor/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	DB      *gorm.DB
	CronMgr *cron.Manager
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	userFollowRepo := repository.NewUserFollowRepo(db)
	postRepo := repository.NewPostRepo(db)
	postActionRepo := repository.NewPostActionRepo(db)
	quoteRepo := repository.NewQuoteRepo(db)

	marketClient := market.NewClient(cfg.Quote)

	userFollowService := service.NewUserFollowService(userFollowRepo, userRepo)
	userService := service.NewUserService(userRepo, userFollowService)
	postActionService := service.NewPostActionService(postActionRepo, postRepo)
	postService := service.NewPostService(postRepo, postActionRepo, userFollowRepo, postActionService)
	quoteService := service.NewQuoteService(quoteRepo, marketClient)

	handlers := &api.HandlersGroup{
		UserHandler:       handler.NewUserHandler(userService),
		UserFollowHandler: handler.NewUserFollowHandler(userFollowService),
		PostHandler:       handler.NewPostHandler(postService),
		PostActionHandler: handler.NewPostActionHandler(postActionService),
		QuoteHandler:      handler.NewQuoteHandler(quoteService),
		MediaHandler:      handler.NewMediaHandler(),
	}

	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(
		job.NewQuoteRefreshJob(quoteService),
		job.NewPostCountSyncJob(postActionService, postRepo),
	)

	return &ApplicationContainer{
		Router:  router,
		DB:      db,
		CronMgr: cronMgr,
	}, nil
}
