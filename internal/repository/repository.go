package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Employee      EmployeeRepository
	City          CityRepository
	Customer      CustomerRepository
	Communication CommunicationRepository
	Attendance    AttendanceRepository
	JobCard       JobCardRepository
	Score         ScoreRepository
	Plan          PlanRepository
	Order         OrderRepository
	Notification  NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Employee:      NewEmployeeRepo(db),
		City:          NewCityRepo(db),
		Customer:      NewCustomerRepo(db),
		Communication: NewCommunicationRepo(db),
		Attendance:    NewAttendanceRepo(db),
		JobCard:       NewJobCardRepo(db),
		Score:         NewScoreRepo(db),
		Plan:          NewPlanRepo(db),
		Order:         NewOrderRepo(db),
		Notification:  NewNotificationRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
