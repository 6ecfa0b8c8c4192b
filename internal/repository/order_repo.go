package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fieldpulse/backend/internal/model"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	List(ctx context.Context, employeeID string, limit int) ([]model.Order, error)
	// CountByEmployeeOn 员工某日的订单数（计分输入）
	CountByEmployeeOn(ctx context.Context, employeeID string, day time.Time) (int64, error)
	// SumBalesByEmployeeOn 员工某日订单的总包数（计分输入）
	SumBalesByEmployeeOn(ctx context.Context, employeeID string, day time.Time) (decimal.Decimal, error)
}

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepo 创建 OrderRepository 实例
func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepo) List(ctx context.Context, employeeID string, limit int) ([]model.Order, error) {
	var orders []model.Order
	db := r.db.WithContext(ctx)

	if employeeID != "" {
		db = db.Where("employee_id = ?", employeeID)
	}

	err := db.Order("order_date DESC").Limit(limit).Find(&orders).Error
	return orders, err
}

func (r *orderRepo) CountByEmployeeOn(ctx context.Context, employeeID string, day time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("employee_id = ? AND order_date = ? AND status <> ?",
			employeeID, day.Format("2006-01-02"), model.OrderStatusCancelled).
		Count(&count).Error
	return count, err
}

func (r *orderRepo) SumBalesByEmployeeOn(ctx context.Context, employeeID string, day time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("SUM(total_bales)").
		Where("employee_id = ? AND order_date = ? AND status <> ?",
			employeeID, day.Format("2006-01-02"), model.OrderStatusCancelled).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
