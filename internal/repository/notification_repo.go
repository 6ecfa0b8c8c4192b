package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fieldpulse/backend/internal/model"
	pkgerrors "fieldpulse/backend/pkg/errors"
)

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	// CreateReminderIfAbsent 提醒幂等创建：同员工同日同类提醒已存在时
	// 不落库并返回 pkg/errors.ErrConflict
	CreateReminderIfAbsent(ctx context.Context, n *model.Notification) error
	ExistsReminderOn(ctx context.Context, employeeID string, day time.Time) (bool, error)
	ListByEmployee(ctx context.Context, employeeID string, limit int) ([]model.Notification, error)
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo 创建 NotificationRepository 实例
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) CreateReminderIfAbsent(ctx context.Context, n *model.Notification) error {
	// 部分唯一索引 uq_notifications_daily_reminder 兜底并发重复触发
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "employee_id"}, {Name: "sent_on"}, {Name: "kind"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "kind = 'TASK_REMINDER'"}}},
			DoNothing:   true,
		}).
		Create(n)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrConflict
	}
	return nil
}

func (r *notificationRepo) ExistsReminderOn(ctx context.Context, employeeID string, day time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("employee_id = ? AND kind = ? AND sent_on = ?",
			employeeID, model.NotificationTaskReminder, day.Format("2006-01-02")).
		Count(&count).Error
	return count > 0, err
}

func (r *notificationRepo) ListByEmployee(ctx context.Context, employeeID string, limit int) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("sent_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}
