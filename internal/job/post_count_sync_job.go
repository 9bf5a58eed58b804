package job

import (
	"Finvisor/internal/pkg/consts"
	"Finvisor/internal/pkg/logger"
	"Finvisor/internal/pkg/redis"
	"Finvisor/internal/pkg/util"
	"Finvisor/internal/repository"
	"Finvisor/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// PostCountSyncJob 把脏帖子的关系表基数刷回 posts 的冗余计数列
type PostCountSyncJob struct {
	actionSvc service.PostActionService
	postRepo  repository.PostRepo
}

func NewPostCountSyncJob(actionSvc service.PostActionService, postRepo repository.PostRepo) *PostCountSyncJob {
	return &PostCountSyncJob{
		actionSvc: actionSvc,
		postRepo:  postRepo,
	}
}

func (s *PostCountSyncJob) Run() {
	traceID := "job-post-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	processingKey := consts.PostDirtyKey + ":processing"
	err := redis.Rename(ctx, consts.PostDirtyKey, processingKey)
	if err != nil {
		return
	}

	tempSet, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get post dirty set error", "err", err)
		return
	}

	postIDs, err := util.StrSliceToUInt64Slice(tempSet)
	if err != nil {
		log.ErrorContext(ctx, "convert post set to int slice error", "err", err)
		return
	}

	synced := 0
	for _, pid := range postIDs {
		likes, err := s.actionSvc.GetPostLikeCount(ctx, pid)
		if err != nil {
			log.ErrorContext(ctx, "get post like count error", "pid", pid, "err", err)
			continue
		}
		comments, err := s.actionSvc.GetPostCommentCount(ctx, pid)
		if err != nil {
			log.ErrorContext(ctx, "get post comment count error", "pid", pid, "err", err)
			continue
		}

		if err = s.postRepo.UpdatePostCounts(ctx, pid, likes, comments); err != nil {
			log.ErrorContext(ctx, "update post counts error", "pid", pid, "err", err)
			continue
		}
		synced++
	}

	err = redis.DeleteKey(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "delete post processing set error", "err", err)
	}

	log.InfoContext(ctx, "sync post counts success",
		"dirty_count", len(postIDs),
		"synced_count", synced)
}
