package cron

import (
	"Finvisor/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine          *cron.Cron
	quoteRefreshJob *job.QuoteRefreshJob
	postCountJob    *job.PostCountSyncJob
}

func NewCronManager(quoteRefreshJob *job.QuoteRefreshJob, postCountJob *job.PostCountSyncJob) *Manager {
	return &Manager{
		engine:          cron.New(cron.WithSeconds()),
		quoteRefreshJob: quoteRefreshJob,
		postCountJob:    postCountJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("@daily", s.quoteRefreshJob); err != nil {
		return err
	}
	// 每五分钟把关系表基数刷回 posts 的冗余计数列
	if _, err := s.engine.AddJob("0 */5 * * * *", s.postCountJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
