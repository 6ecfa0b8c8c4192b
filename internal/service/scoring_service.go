package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fieldpulse/backend/internal/dto"
	"fieldpulse/backend/internal/model"
	"fieldpulse/backend/internal/repository"
)

// ScoringService 每日计分业务接口
// RunDaily 对同一天可安全重跑：整行覆盖写入，结果恒等
type ScoringService interface {
	RunDaily(ctx context.Context, date time.Time) (*dto.JobRunResponse, error)
	Leaderboard(ctx context.Context, req *dto.LeaderboardRequest) ([]dto.LeaderboardEntry, error)
}

type scoringService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScoringService 创建 ScoringService 实例
func NewScoringService(repo *repository.Repository, logger *zap.Logger) ScoringService {
	return &scoringService{repo: repo, logger: logger}
}

// RunDaily 重算指定日期所有在职员工的计分
// 单个员工失败只记日志并跳过，整批不中断
func (s *scoringService) RunDaily(ctx context.Context, date time.Time) (*dto.JobRunResponse, error) {
	day := dateOf(date.UTC())

	employees, err := s.repo.Employee.List(ctx, true)
	if err != nil {
		s.logger.Error("计分作业查询员工失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.JobRunResponse{}
	for i := range employees {
		emp := &employees[i]
		if err := s.scoreEmployee(ctx, emp.EmployeeID, day); err != nil {
			s.logger.Error("员工计分失败",
				zap.String("employee_id", emp.EmployeeID),
				zap.String("date", day.Format("2006-01-02")),
				zap.Error(err))
			resp.Failed++
			continue
		}
		resp.Processed++
	}

	s.logger.Info("计分作业完成",
		zap.String("date", day.Format("2006-01-02")),
		zap.Int("processed", resp.Processed),
		zap.Int("failed", resp.Failed))
	return resp, nil
}

func (s *scoringService) scoreEmployee(ctx context.Context, employeeID string, day time.Time) error {
	jobs, err := s.repo.JobCard.CountCompletedByAssigneeOn(ctx, employeeID, day)
	if err != nil {
		return err
	}
	orders, err := s.repo.Order.CountByEmployeeOn(ctx, employeeID, day)
	if err != nil {
		return err
	}
	bales, err := s.repo.Order.SumBalesByEmployeeOn(ctx, employeeID, day)
	if err != nil {
		return err
	}
	payments, err := s.repo.Communication.CountPaymentsByEmployeeOn(ctx, employeeID, day)
	if err != nil {
		return err
	}

	// 零活动的员工也落一行零分记录
	score := &model.DailyScore{
		EmployeeID:    employeeID,
		ScoreDate:     day,
		JobsCompleted: int(jobs),
		OrdersCount:   int(orders),
		BalesTotal:    bales,
		PaymentsCount: int(payments),
		Points:        model.ComputePoints(int(jobs), int(orders), bales, int(payments)),
	}
	return s.repo.Score.Upsert(ctx, score)
}

func (s *scoringService) Leaderboard(ctx context.Context, req *dto.LeaderboardRequest) ([]dto.LeaderboardEntry, error) {
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	scores, err := s.repo.Score.ListByDate(ctx, day)
	if err != nil {
		s.logger.Error("查询排行榜失败", zap.String("date", req.Date), zap.Error(err))
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(scores))
	for i := range scores {
		sc := &scores[i]
		entry := dto.LeaderboardEntry{
			Rank:          i + 1,
			EmployeeID:    sc.EmployeeID,
			JobsCompleted: sc.JobsCompleted,
			OrdersCount:   sc.OrdersCount,
			BalesTotal:    sc.BalesTotal.StringFixed(2),
			PaymentsCount: sc.PaymentsCount,
			Points:        sc.Points.StringFixed(2),
		}
		if sc.Employee != nil {
			entry.EmployeeName = sc.Employee.Name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
