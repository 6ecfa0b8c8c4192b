package repository

import (
	"context"

	"gorm.io/gorm"

	"fieldpulse/backend/internal/model"
)

// PlanRepository 城市-星期排班计划数据访问接口（节奏引擎只读输入）
type PlanRepository interface {
	ListByWeekday(ctx context.Context, weekday int) ([]model.CityWeekdayPlan, error)
	List(ctx context.Context) ([]model.CityWeekdayPlan, error)
}

type planRepo struct {
	db *gorm.DB
}

// NewPlanRepo 创建 PlanRepository 实例
func NewPlanRepo(db *gorm.DB) PlanRepository {
	return &planRepo{db: db}
}

func (r *planRepo) ListByWeekday(ctx context.Context, weekday int) ([]model.CityWeekdayPlan, error) {
	var plans []model.CityWeekdayPlan
	err := r.db.WithContext(ctx).
		Where("weekday = ?", weekday).
		Find(&plans).Error
	return plans, err
}

func (r *planRepo) List(ctx context.Context) ([]model.CityWeekdayPlan, error) {
	var plans []model.CityWeekdayPlan
	err := r.db.WithContext(ctx).
		Order("weekday ASC").
		Find(&plans).Error
	return plans, err
}
