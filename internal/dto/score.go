package dto

// ── 计分与排行榜 DTO ──

// LeaderboardRequest 排行榜查询参数
type LeaderboardRequest struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

// LeaderboardEntry 排行榜条目（按积分降序）
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	EmployeeID    string `json:"employee_id"`
	EmployeeName  string `json:"employee_name,omitempty"`
	JobsCompleted int    `json:"jobs_completed"`
	OrdersCount   int    `json:"orders_count"`
	BalesTotal    string `json:"bales_total"`
	PaymentsCount int    `json:"payments_count"`
	Points        string `json:"points"`
}

// RunScoringRequest 手动触发计分作业请求
type RunScoringRequest struct {
	Date string `json:"date" binding:"omitempty,datetime=2006-01-02"` // 缺省为昨天
}

// JobRunResponse 批量作业运行结果
type JobRunResponse struct {
	Processed int `json:"processed"`
	Created   int `json:"created,omitempty"`
	Failed    int `json:"failed"`
}
