package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fieldpulse/backend/internal/dto"
	"fieldpulse/backend/internal/model"
	"fieldpulse/backend/internal/repository"
	pkgerrors "fieldpulse/backend/pkg/errors"
)

const (
	reminderTitle    = "今日任务提醒"
	reminderBodyTmpl = "您今天有 %d 个待处理任务，请及时完成"

	notificationListLimit = 50
)

// NotificationService 通知分发业务接口
type NotificationService interface {
	// RunDailyReminders 给有当日到期未完成任务的员工各发一条提醒
	// 同员工同日重复触发不会产生第二条
	RunDailyReminders(ctx context.Context, now time.Time) (*dto.JobRunResponse, error)
	List(ctx context.Context, req *dto.NotificationListRequest) ([]dto.NotificationResponse, error)
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) RunDailyReminders(ctx context.Context, now time.Time) (*dto.JobRunResponse, error) {
	nowUTC := now.UTC()
	today := dateOf(nowUTC)

	employeeIDs, err := s.repo.JobCard.ListAssigneesWithOpenDueOn(ctx, today)
	if err != nil {
		s.logger.Error("提醒作业查询到期任务失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.JobRunResponse{}
	for _, employeeID := range employeeIDs {
		resp.Processed++
		sent, err := s.remindEmployee(ctx, employeeID, today, nowUTC)
		if err != nil {
			s.logger.Error("发送任务提醒失败", zap.String("employee_id", employeeID), zap.Error(err))
			resp.Failed++
			continue
		}
		if sent {
			resp.Created++
		}
	}

	s.logger.Info("提醒作业完成",
		zap.String("date", today.Format("2006-01-02")),
		zap.Int("processed", resp.Processed),
		zap.Int("created", resp.Created),
		zap.Int("failed", resp.Failed))
	return resp, nil
}

func (s *notificationService) remindEmployee(ctx context.Context, employeeID string, today, now time.Time) (bool, error) {
	exists, err := s.repo.Notification.ExistsReminderOn(ctx, employeeID, today)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	count, err := s.repo.JobCard.CountOpenDueOn(ctx, employeeID, today)
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}

	n := &model.Notification{
		EmployeeID: employeeID,
		Kind:       model.NotificationTaskReminder,
		Title:      reminderTitle,
		Body:       fmt.Sprintf(reminderBodyTmpl, count),
		SentOn:     today,
		SentAt:     now,
	}
	if err := s.repo.Notification.CreateReminderIfAbsent(ctx, n); err != nil {
		if errors.Is(err, pkgerrors.ErrConflict) {
			// 并发轮次已发送，视为成功去重
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *notificationService) List(ctx context.Context, req *dto.NotificationListRequest) ([]dto.NotificationResponse, error) {
	notifications, err := s.repo.Notification.ListByEmployee(ctx, req.EmployeeID, notificationListLimit)
	if err != nil {
		s.logger.Error("查询通知列表失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		n := &notifications[i]
		result = append(result, dto.NotificationResponse{
			NotificationID: n.NotificationID,
			Kind:           n.Kind,
			Title:          n.Title,
			Body:           n.Body,
			SentAt:         n.SentAt.Format(time.RFC3339),
		})
	}
	return result, nil
}
