package job

import (
	"Finvisor/internal/pkg/logger"
	"Finvisor/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// QuoteRefreshJob 每天把库里全部代码的快照刷一遍，保证冷门代码也有当日数据
type QuoteRefreshJob struct {
	quoteSvc service.QuoteService
}

func NewQuoteRefreshJob(quoteSvc service.QuoteService) *QuoteRefreshJob {
	return &QuoteRefreshJob{
		quoteSvc: quoteSvc,
	}
}

func (s *QuoteRefreshJob) Run() {
	traceID := "job-quote-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	if err := s.quoteSvc.RefreshAll(ctx); err != nil {
		log.ErrorContext(ctx, "refresh quotes error", "err", err)
		return
	}
	log.InfoContext(ctx, "refresh quotes success")
}
