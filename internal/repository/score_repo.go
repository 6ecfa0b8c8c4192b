package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fieldpulse/backend/internal/model"
)

// ScoreRepository 每日计分数据访问接口
type ScoreRepository interface {
	// Upsert 按 (employee, score_date) 整行覆盖写入
	// 重跑同一天结果恒等，不会累加
	Upsert(ctx context.Context, score *model.DailyScore) error
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*model.DailyScore, error)
	// ListByDate 按积分降序返回某日全部计分（排行榜）
	ListByDate(ctx context.Context, date time.Time) ([]model.DailyScore, error)
}

type scoreRepo struct {
	db *gorm.DB
}

// NewScoreRepo 创建 ScoreRepository 实例
func NewScoreRepo(db *gorm.DB) ScoreRepository {
	return &scoreRepo{db: db}
}

func (r *scoreRepo) Upsert(ctx context.Context, score *model.DailyScore) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}, {Name: "score_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"jobs_completed", "orders_count", "bales_total",
				"payments_count", "points", "updated_at",
			}),
		}).
		Create(score).Error
}

func (r *scoreRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*model.DailyScore, error) {
	var score model.DailyScore
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND score_date = ?", employeeID, date.Format("2006-01-02")).
		First(&score).Error
	if err != nil {
		return nil, err
	}
	return &score, nil
}

func (r *scoreRepo) ListByDate(ctx context.Context, date time.Time) ([]model.DailyScore, error) {
	var scores []model.DailyScore
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("score_date = ?", date.Format("2006-01-02")).
		Order("points DESC").
		Find(&scores).Error
	return scores, err
}
