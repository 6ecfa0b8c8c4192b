package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"fieldpulse/backend/config"
	"fieldpulse/backend/internal/dto"
	"fieldpulse/backend/internal/model"
	"fieldpulse/backend/internal/repository"
	pkgerrors "fieldpulse/backend/pkg/errors"
)

// 自动任务的生成原因，写入 job_cards.created_reason
const autoTaskReason = "自动生成：客户例行联络"

// CadenceService 任务节奏引擎
// 按 (城市, 星期) 排班计划为欠联络客户补建 CALL 任务卡
type CadenceService interface {
	Run(ctx context.Context, now time.Time) (*dto.JobRunResponse, error)
}

type cadenceService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCadenceService 创建 CadenceService 实例
func NewCadenceService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CadenceService {
	return &cadenceService{cfg: cfg, repo: repo, logger: logger}
}

// Run 执行一轮节奏巡检
// 客户入选条件（全部满足）：
//   - 本自然月联络次数 < cadence_min_contacts
//   - 最近 cadence_cooldown_days 天内没有已完成任务卡
//   - 今天尚无自动任务卡
//
// 每个 (城市, 员工) 每天最多新建 cadence_task_cap 张，当日重跑共享
// 同一额度；并发重复触发由部分唯一索引兜底（冲突视为已生成，跳过不计失败）
func (s *cadenceService) Run(ctx context.Context, now time.Time) (*dto.JobRunResponse, error) {
	nowUTC := now.UTC()
	today := dateOf(nowUTC)
	weekday := isoWeekday(nowUTC)

	plans, err := s.repo.Plan.ListByWeekday(ctx, weekday)
	if err != nil {
		s.logger.Error("节奏作业查询排班计划失败", zap.Int("weekday", weekday), zap.Error(err))
		return nil, err
	}

	monthStart := time.Date(nowUTC.Year(), nowUTC.Month(), 1, 0, 0, 0, 0, time.UTC)
	cooldownSince := nowUTC.AddDate(0, 0, -s.cfg.Jobs.CadenceCooldownDays)
	dueAt := nowUTC.Add(time.Duration(s.cfg.Jobs.TaskDueHours) * time.Hour)

	resp := &dto.JobRunResponse{}
	for i := range plans {
		plan := &plans[i]
		if plan.EmployeeID == nil {
			continue
		}
		resp.Processed++

		created, failed, err := s.runPlanEntry(ctx, plan, today, monthStart, cooldownSince, dueAt)
		resp.Created += created
		resp.Failed += failed
		if err != nil {
			// 单个计划条目失败只记日志，整批不中断
			s.logger.Error("计划条目处理失败",
				zap.String("city_id", plan.CityID),
				zap.Stringp("employee_id", plan.EmployeeID),
				zap.Error(err))
			resp.Failed++
		}
	}

	s.logger.Info("节奏作业完成",
		zap.Int("weekday", weekday),
		zap.Int("processed", resp.Processed),
		zap.Int("created", resp.Created),
		zap.Int("failed", resp.Failed))
	return resp, nil
}

func (s *cadenceService) runPlanEntry(
	ctx context.Context,
	plan *model.CityWeekdayPlan,
	today, monthStart, cooldownSince, dueAt time.Time,
) (created, failed int, err error) {
	// 上限按 (城市, 员工, 日) 计数，当日早前轮次已建的卡要计入额度，
	// 否则 8 小时一轮的重跑会分批突破日上限
	existing, err := s.repo.JobCard.CountAutoForPlanOn(ctx, plan.CityID, *plan.EmployeeID, today)
	if err != nil {
		return 0, 0, err
	}
	budget := s.cfg.Jobs.CadenceTaskCap - int(existing)
	if budget <= 0 {
		return 0, 0, nil
	}

	customers, err := s.repo.Customer.ListActiveByCity(ctx, plan.CityID)
	if err != nil {
		return 0, 0, err
	}

	for i := range customers {
		if created >= budget {
			break
		}
		customer := &customers[i]

		eligible, err := s.customerEligible(ctx, customer.CustomerID, today, monthStart, cooldownSince)
		if err != nil {
			// 单个客户判定失败不拖垮同条目其余客户
			s.logger.Error("客户入选判定失败",
				zap.String("customer_id", customer.CustomerID),
				zap.String("city_id", plan.CityID),
				zap.Error(err))
			failed++
			continue
		}
		if !eligible {
			continue
		}

		card := &model.JobCard{
			Type:          model.JobTypeCall,
			Priority:      model.JobPriorityMedium,
			Status:        model.JobStatusPending,
			AssigneeID:    plan.EmployeeID,
			CustomerID:    &customer.CustomerID,
			CityID:        &plan.CityID,
			DueAt:         &dueAt,
			AutoGenerated: true,
			CreatedReason: autoTaskReason,
			CreatedOn:     today,
		}
		if err := s.repo.JobCard.CreateAutoIfAbsent(ctx, card); err != nil {
			if errors.Is(err, pkgerrors.ErrConflict) {
				// 并发轮次抢先生成，视为已有
				continue
			}
			s.logger.Error("自动任务卡写入失败",
				zap.String("customer_id", customer.CustomerID),
				zap.String("city_id", plan.CityID),
				zap.Error(err))
			failed++
			continue
		}
		created++
	}
	return created, failed, nil
}

func (s *cadenceService) customerEligible(ctx context.Context, customerID string, today, monthStart, cooldownSince time.Time) (bool, error) {
	contacts, err := s.repo.Communication.CountForCustomerSince(ctx, customerID, monthStart)
	if err != nil {
		return false, err
	}
	if contacts >= int64(s.cfg.Jobs.CadenceMinContacts) {
		return false, nil
	}

	completed, err := s.repo.JobCard.HasCompletedForCustomerSince(ctx, customerID, cooldownSince)
	if err != nil {
		return false, err
	}
	if completed {
		return false, nil
	}

	exists, err := s.repo.JobCard.HasAutoForCustomerOn(ctx, customerID, today)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// isoWeekday ISO 8601 星期序号：1=周一 ... 7=周日
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
