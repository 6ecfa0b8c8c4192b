package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"fieldpulse/backend/config"
	"fieldpulse/backend/internal/service"
)

// Scheduler 定时作业调度器
// 三个作业统一按 UTC 执行：每日计分、任务节奏巡检、到期任务提醒
type Scheduler struct {
	cron   *cron.Cron
	cfg    *config.Config
	svc    *service.Service
	logger *zap.Logger
}

// New 创建 Scheduler 实例
func New(cfg *config.Config, svc *service.Service, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		cfg:    cfg,
		svc:    svc,
		logger: logger,
	}
}

// Start 注册全部作业并启动调度
func (s *Scheduler) Start() error {
	jobs := []struct {
		name string
		spec string
		run  func(ctx context.Context) error
	}{
		{
			name: "daily_scoring",
			spec: s.cfg.Jobs.ScoringCron,
			run: func(ctx context.Context) error {
				// 结算前一天
				yesterday := time.Now().UTC().AddDate(0, 0, -1)
				_, err := s.svc.Scoring.RunDaily(ctx, yesterday)
				return err
			},
		},
		{
			name: "task_cadence",
			spec: s.cfg.Jobs.CadenceCron,
			run: func(ctx context.Context) error {
				_, err := s.svc.Cadence.Run(ctx, time.Now())
				return err
			},
		},
		{
			name: "task_reminders",
			spec: s.cfg.Jobs.ReminderCron,
			run: func(ctx context.Context) error {
				_, err := s.svc.Notification.RunDailyReminders(ctx, time.Now())
				return err
			},
		},
	}

	for _, job := range jobs {
		job := job
		if _, err := s.cron.AddFunc(job.spec, func() {
			s.runJob(job.name, job.run)
		}); err != nil {
			return err
		}
		s.logger.Info("定时作业已注册",
			zap.String("job", job.name), zap.String("spec", job.spec))
	}

	s.cron.Start()
	return nil
}

// Stop 停止调度并等待在跑作业结束
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("定时作业调度器已停止")
}

// runJob 执行单个作业：记录起止与耗时，panic 不得击穿调度循环
func (s *Scheduler) runJob(name string, run func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("定时作业 panic", zap.String("job", name), zap.Any("panic", r))
		}
	}()

	start := time.Now()
	s.logger.Info("定时作业开始", zap.String("job", name))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := run(ctx); err != nil {
		s.logger.Error("定时作业失败",
			zap.String("job", name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return
	}
	s.logger.Info("定时作业完成",
		zap.String("job", name),
		zap.Duration("elapsed", time.Since(start)))
}
