package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fieldpulse/backend/internal/model"
)

// CommunicationRepository 联络记录数据访问接口
type CommunicationRepository interface {
	Create(ctx context.Context, log *model.CommunicationLog) error
	// CountForCustomerSince 统计客户自某时刻起的联络次数（节奏引擎"本月已联络"）
	CountForCustomerSince(ctx context.Context, customerID string, since time.Time) (int64, error)
	// CountPaymentsByEmployeeOn 统计员工某日的回款类联络次数（计分输入）
	CountPaymentsByEmployeeOn(ctx context.Context, employeeID string, day time.Time) (int64, error)
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]model.CommunicationLog, error)
}

type communicationRepo struct {
	db *gorm.DB
}

// NewCommunicationRepo 创建 CommunicationRepository 实例
func NewCommunicationRepo(db *gorm.DB) CommunicationRepository {
	return &communicationRepo{db: db}
}

func (r *communicationRepo) Create(ctx context.Context, log *model.CommunicationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *communicationRepo) CountForCustomerSince(ctx context.Context, customerID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CommunicationLog{}).
		Where("customer_id = ? AND logged_at >= ?", customerID, since).
		Count(&count).Error
	return count, err
}

func (r *communicationRepo) CountPaymentsByEmployeeOn(ctx context.Context, employeeID string, day time.Time) (int64, error) {
	dayStart := day.Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CommunicationLog{}).
		Where("employee_id = ? AND kind = ? AND logged_at >= ? AND logged_at < ?",
			employeeID, model.CommKindPayment, dayStart, dayEnd).
		Count(&count).Error
	return count, err
}

func (r *communicationRepo) ListByCustomer(ctx context.Context, customerID string, limit int) ([]model.CommunicationLog, error) {
	var logs []model.CommunicationLog
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("logged_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
