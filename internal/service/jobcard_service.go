package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fieldpulse/backend/internal/dto"
	"fieldpulse/backend/internal/model"
	"fieldpulse/backend/internal/repository"
)

var (
	ErrJobCardNotFound   = errors.New("任务卡不存在")
	ErrInvalidTransition = errors.New("非法的任务状态迁移")
	ErrInvalidDueAt      = errors.New("截止时间格式非法，应为 RFC3339")
)

// JobCardService 任务卡业务接口
type JobCardService interface {
	Create(ctx context.Context, req *dto.CreateJobCardRequest) (*dto.JobCardResponse, error)
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateJobCardStatusRequest) (*dto.JobCardResponse, error)
	MyTasks(ctx context.Context, req *dto.MyTasksRequest) ([]dto.JobCardResponse, error)
}

type jobCardService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewJobCardService 创建 JobCardService 实例
func NewJobCardService(repo *repository.Repository, logger *zap.Logger) JobCardService {
	return &jobCardService{repo: repo, logger: logger, now: time.Now}
}

func (s *jobCardService) Create(ctx context.Context, req *dto.CreateJobCardRequest) (*dto.JobCardResponse, error) {
	card := &model.JobCard{
		Type:          req.Type,
		Priority:      model.JobPriorityMedium,
		Status:        model.JobStatusPending,
		AutoGenerated: false,
		CreatedReason: req.Reason,
		CreatedOn:     dateOf(s.now().UTC()),
	}
	if req.Priority != "" {
		card.Priority = req.Priority
	}
	if req.AssigneeID != "" {
		if _, err := s.repo.Employee.GetByID(ctx, req.AssigneeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrEmployeeNotFound
			}
			return nil, err
		}
		card.AssigneeID = &req.AssigneeID
	}
	if req.CustomerID != "" {
		if _, err := s.repo.Customer.GetByID(ctx, req.CustomerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCustomerNotFound
			}
			return nil, err
		}
		card.CustomerID = &req.CustomerID
	}
	if req.CityID != "" {
		card.CityID = &req.CityID
	}
	if req.DueAt != "" {
		due, err := time.Parse(time.RFC3339, req.DueAt)
		if err != nil {
			return nil, ErrInvalidDueAt
		}
		dueUTC := due.UTC()
		card.DueAt = &dueUTC
	}

	if err := s.repo.JobCard.Create(ctx, card); err != nil {
		s.logger.Error("创建任务卡失败", zap.Error(err))
		return nil, err
	}
	return toJobCardResponse(card), nil
}

func (s *jobCardService) UpdateStatus(ctx context.Context, id string, req *dto.UpdateJobCardStatusRequest) (*dto.JobCardResponse, error) {
	card, err := s.repo.JobCard.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobCardNotFound
		}
		return nil, err
	}
	if !card.CanTransitionTo(req.Status) {
		return nil, ErrInvalidTransition
	}

	var completedAt *time.Time
	if req.Status == model.JobStatusCompleted {
		now := s.now().UTC()
		completedAt = &now
	}

	rows, err := s.repo.JobCard.UpdateStatus(ctx, id, card.Status, req.Status, completedAt)
	if err != nil {
		s.logger.Error("更新任务状态失败", zap.String("job_card_id", id), zap.Error(err))
		return nil, err
	}
	if rows == 0 {
		// 读取与更新之间状态已被并发修改
		return nil, ErrInvalidTransition
	}

	card.Status = req.Status
	card.CompletedAt = completedAt
	return toJobCardResponse(card), nil
}

func (s *jobCardService) MyTasks(ctx context.Context, req *dto.MyTasksRequest) ([]dto.JobCardResponse, error) {
	cards, err := s.repo.JobCard.ListOpenByAssignee(ctx, req.EmployeeID)
	if err != nil {
		s.logger.Error("查询待办任务失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.JobCardResponse, 0, len(cards))
	for i := range cards {
		result = append(result, *toJobCardResponse(&cards[i]))
	}
	return result, nil
}

func toJobCardResponse(card *model.JobCard) *dto.JobCardResponse {
	resp := &dto.JobCardResponse{
		JobCardID:     card.JobCardID,
		Type:          card.Type,
		Priority:      card.Priority,
		Status:        card.Status,
		AutoGenerated: card.AutoGenerated,
		CreatedReason: card.CreatedReason,
		CreatedAt:     card.CreatedAt.Format(time.RFC3339),
	}
	if card.AssigneeID != nil {
		resp.AssigneeID = *card.AssigneeID
	}
	if card.CustomerID != nil {
		resp.CustomerID = *card.CustomerID
	}
	if card.CityID != nil {
		resp.CityID = *card.CityID
	}
	if card.DueAt != nil {
		resp.DueAt = card.DueAt.Format(time.RFC3339)
	}
	if card.CompletedAt != nil {
		resp.CompletedAt = card.CompletedAt.Format(time.RFC3339)
	}
	return resp
}
