package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fieldpulse/backend/internal/model"
	pkgerrors "fieldpulse/backend/pkg/errors"
)

// JobCardRepository 任务卡数据访问接口
type JobCardRepository interface {
	Create(ctx context.Context, card *model.JobCard) error
	// CreateAutoIfAbsent 自动卡幂等创建：同客户同日已有自动卡时
	// 不落库并返回 pkg/errors.ErrConflict
	CreateAutoIfAbsent(ctx context.Context, card *model.JobCard) error
	GetByID(ctx context.Context, id string) (*model.JobCard, error)
	// UpdateStatus 乐观条件更新：仅当当前状态仍为 fromStatus 时迁移
	// 返回实际更新的行数，0 表示状态已被并发修改
	UpdateStatus(ctx context.Context, id, fromStatus, toStatus string, completedAt *time.Time) (int64, error)
	ListOpenByAssignee(ctx context.Context, employeeID string) ([]model.JobCard, error)
	// ListAssigneesWithOpenDueOn 有当日到期未完成任务的员工 ID 列表
	ListAssigneesWithOpenDueOn(ctx context.Context, day time.Time) ([]string, error)
	CountOpenDueOn(ctx context.Context, employeeID string, day time.Time) (int64, error)
	// CountCompletedByAssigneeOn 员工某日完成的任务数（计分输入）
	CountCompletedByAssigneeOn(ctx context.Context, employeeID string, day time.Time) (int64, error)
	// HasCompletedForCustomerSince 客户自某时刻起是否有已完成任务（节奏冷却判断）
	HasCompletedForCustomerSince(ctx context.Context, customerID string, since time.Time) (bool, error)
	// HasAutoForCustomerOn 客户某日是否已有自动生成任务（节奏引擎去重）
	HasAutoForCustomerOn(ctx context.Context, customerID string, day time.Time) (bool, error)
	// CountAutoForPlanOn (城市, 员工) 某日已有的自动任务数（节奏引擎日上限）
	CountAutoForPlanOn(ctx context.Context, cityID, employeeID string, day time.Time) (int64, error)
}

type jobCardRepo struct {
	db *gorm.DB
}

// NewJobCardRepo 创建 JobCardRepository 实例
func NewJobCardRepo(db *gorm.DB) JobCardRepository {
	return &jobCardRepo{db: db}
}

func (r *jobCardRepo) Create(ctx context.Context, card *model.JobCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *jobCardRepo) CreateAutoIfAbsent(ctx context.Context, card *model.JobCard) error {
	// 部分唯一索引 uq_job_cards_auto_daily 兜底并发重复触发
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "customer_id"}, {Name: "created_on"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "auto_generated"}}},
			DoNothing:   true,
		}).
		Create(card)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrConflict
	}
	return nil
}

func (r *jobCardRepo) GetByID(ctx context.Context, id string) (*model.JobCard, error) {
	var card model.JobCard
	err := r.db.WithContext(ctx).
		Where("job_card_id = ?", id).
		First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *jobCardRepo) UpdateStatus(ctx context.Context, id, fromStatus, toStatus string, completedAt *time.Time) (int64, error) {
	updates := map[string]interface{}{
		"status":     toStatus,
		"updated_at": gorm.Expr("NOW()"),
	}
	if completedAt != nil {
		updates["completed_at"] = completedAt
	}

	result := r.db.WithContext(ctx).
		Model(&model.JobCard{}).
		Where("job_card_id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *jobCardRepo) ListOpenByAssignee(ctx context.Context, employeeID string) ([]model.JobCard, error) {
	var cards []model.JobCard
	err := r.db.WithContext(ctx).
		Where("assignee_id = ? AND status IN ?", employeeID,
			[]string{model.JobStatusPending, model.JobStatusInProgress}).
		Order("due_at ASC NULLS LAST, priority DESC").
		Find(&cards).Error
	return cards, err
}

func (r *jobCardRepo) ListAssigneesWithOpenDueOn(ctx context.Context, day time.Time) ([]string, error) {
	dayStart := day.Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.JobCard{}).
		Distinct("assignee_id").
		Where("assignee_id IS NOT NULL AND status IN ? AND due_at >= ? AND due_at < ?",
			[]string{model.JobStatusPending, model.JobStatusInProgress}, dayStart, dayEnd).
		Pluck("assignee_id", &ids).Error
	return ids, err
}

func (r *jobCardRepo) CountOpenDueOn(ctx context.Context, employeeID string, day time.Time) (int64, error) {
	dayStart := day.Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.JobCard{}).
		Where("assignee_id = ? AND status IN ? AND due_at >= ? AND due_at < ?",
			employeeID, []string{model.JobStatusPending, model.JobStatusInProgress}, dayStart, dayEnd).
		Count(&count).Error
	return count, err
}

func (r *jobCardRepo) CountCompletedByAssigneeOn(ctx context.Context, employeeID string, day time.Time) (int64, error) {
	dayStart := day.Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.JobCard{}).
		Where("assignee_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?",
			employeeID, model.JobStatusCompleted, dayStart, dayEnd).
		Count(&count).Error
	return count, err
}

func (r *jobCardRepo) HasCompletedForCustomerSince(ctx context.Context, customerID string, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.JobCard{}).
		Where("customer_id = ? AND status = ? AND completed_at >= ?",
			customerID, model.JobStatusCompleted, since).
		Count(&count).Error
	return count > 0, err
}

func (r *jobCardRepo) HasAutoForCustomerOn(ctx context.Context, customerID string, day time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.JobCard{}).
		Where("customer_id = ? AND auto_generated = ? AND created_on = ?",
			customerID, true, day.Format("2006-01-02")).
		Count(&count).Error
	return count > 0, err
}

func (r *jobCardRepo) CountAutoForPlanOn(ctx context.Context, cityID, employeeID string, day time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.JobCard{}).
		Where("city_id = ? AND assignee_id = ? AND auto_generated = ? AND created_on = ?",
			cityID, employeeID, true, day.Format("2006-01-02")).
		Count(&count).Error
	return count, err
}
