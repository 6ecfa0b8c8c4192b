package dto

// ── 客户模块 DTO ──

// CreateCustomerRequest 创建客户请求
type CreateCustomerRequest struct {
	Name            string `json:"name"              binding:"required,min=1,max=255"`
	Code            string `json:"code"              binding:"required,min=1,max=60"`
	CityID          string `json:"city_id"           binding:"omitempty,uuid"`
	Phone           string `json:"phone"             binding:"omitempty,max=30"`
	Email           string `json:"email"             binding:"omitempty,email"`
	OwnerEmployeeID string `json:"owner_employee_id" binding:"omitempty,uuid"`
}

// CustomerSearchRequest 客户搜索查询参数
type CustomerSearchRequest struct {
	Query string `form:"q" binding:"required,min=1"`
}

// CustomerResponse 客户信息响应
type CustomerResponse struct {
	CustomerID      string `json:"customer_id"`
	Name            string `json:"name"`
	Code            string `json:"code"`
	CityID          string `json:"city_id,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty"`
	IsActive        bool   `json:"is_active"`
	OwnerEmployeeID string `json:"owner_employee_id,omitempty"`
}

// ── 联络记录 DTO ──

// CreateCommunicationRequest 记录一次客户联络
type CreateCommunicationRequest struct {
	CustomerID string `json:"customer_id" binding:"required,uuid"`
	EmployeeID string `json:"employee_id" binding:"omitempty,uuid"`
	Channel    string `json:"channel"     binding:"required,oneof=CALL WHATSAPP EMAIL VISIT"`
	Direction  string `json:"direction"   binding:"omitempty,oneof=IN OUT"`
	Kind       string `json:"kind"        binding:"omitempty,oneof=GENERAL PAYMENT"`
	Body       string `json:"body"        binding:"omitempty,max=5000"`
}
