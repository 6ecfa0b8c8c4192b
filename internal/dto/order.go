package dto

// ── 订单模块 DTO ──

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	CustomerID  string `json:"customer_id"  binding:"required,uuid"`
	EmployeeID  string `json:"employee_id"  binding:"omitempty,uuid"`
	OrderDate   string `json:"order_date"   binding:"required,datetime=2006-01-02"`
	TotalBales  string `json:"total_bales"  binding:"omitempty"` // 十进制字符串
	TotalAmount string `json:"total_amount" binding:"omitempty"`
}

// OrderListRequest 订单列表查询参数
type OrderListRequest struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
}

// OrderResponse 订单信息响应
type OrderResponse struct {
	OrderID     string `json:"order_id"`
	CustomerID  string `json:"customer_id"`
	EmployeeID  string `json:"employee_id,omitempty"`
	OrderDate   string `json:"order_date"`
	Status      string `json:"status"`
	TotalBales  string `json:"total_bales"`
	TotalAmount string `json:"total_amount"`
}

// ── 通知 DTO ──

// NotificationListRequest 通知列表查询参数
type NotificationListRequest struct {
	EmployeeID string `form:"employee_id" binding:"required,uuid"`
}

// NotificationResponse 通知响应
type NotificationResponse struct {
	NotificationID string `json:"notification_id"`
	Kind           string `json:"kind"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	SentAt         string `json:"sent_at"`
}
