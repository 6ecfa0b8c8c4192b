package dto

// ── 任务卡模块 DTO ──

// CreateJobCardRequest 人工创建任务卡请求
type CreateJobCardRequest struct {
	Type       string `json:"type"        binding:"required,oneof=CALL VISIT SAMPLE COLLECTION FOLLOWUP"`
	Priority   string `json:"priority"    binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	AssigneeID string `json:"assignee_id" binding:"omitempty,uuid"`
	CustomerID string `json:"customer_id" binding:"omitempty,uuid"`
	CityID     string `json:"city_id"     binding:"omitempty,uuid"`
	DueAt      string `json:"due_at"      binding:"omitempty"` // RFC3339
	Reason     string `json:"reason"      binding:"omitempty,max=2000"`
}

// UpdateJobCardStatusRequest 任务卡状态迁移请求
type UpdateJobCardStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=IN_PROGRESS COMPLETED CANCELLED"`
}

// MyTasksRequest 我的待办任务查询参数
type MyTasksRequest struct {
	EmployeeID string `form:"employee_id" binding:"required,uuid"`
}

// JobCardResponse 任务卡响应
type JobCardResponse struct {
	JobCardID     string `json:"job_card_id"`
	Type          string `json:"type"`
	Priority      string `json:"priority"`
	Status        string `json:"status"`
	AssigneeID    string `json:"assignee_id,omitempty"`
	CustomerID    string `json:"customer_id,omitempty"`
	CityID        string `json:"city_id,omitempty"`
	DueAt         string `json:"due_at,omitempty"`
	AutoGenerated bool   `json:"auto_generated"`
	CreatedReason string `json:"created_reason,omitempty"`
	CompletedAt   string `json:"completed_at,omitempty"`
	CreatedAt     string `json:"created_at"`
}
