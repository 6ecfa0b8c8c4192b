package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fieldpulse/backend/internal/dto"
	"fieldpulse/backend/internal/service"
	"fieldpulse/backend/pkg/response"
)

// JobCardHandler 任务卡模块 HTTP 处理器
type JobCardHandler struct {
	jobCardSvc service.JobCardService
}

// NewJobCardHandler 创建 JobCardHandler
func NewJobCardHandler(jobCardSvc service.JobCardService) *JobCardHandler {
	return &JobCardHandler{jobCardSvc: jobCardSvc}
}

// CreateJobCard 人工创建任务卡
// POST /api/v1/job-cards
func (h *JobCardHandler) CreateJobCard(c *gin.Context) {
	var req dto.CreateJobCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	card, err := h.jobCardSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleJobCardError(c, err)
		return
	}

	response.Created(c, card)
}

// UpdateStatus 任务状态迁移
// PUT /api/v1/job-cards/:id/status
func (h *JobCardHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	var req dto.UpdateJobCardStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	card, err := h.jobCardSvc.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		h.handleJobCardError(c, err)
		return
	}

	response.OK(c, card)
}

// MyTasks 我的待办任务
// GET /api/v1/job-cards/my
func (h *JobCardHandler) MyTasks(c *gin.Context) {
	var req dto.MyTasksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cards, err := h.jobCardSvc.MyTasks(c.Request.Context(), &req)
	if err != nil {
		h.handleJobCardError(c, err)
		return
	}

	response.OK(c, gin.H{"list": cards})
}

// handleJobCardError 统一处理任务卡模块业务错误
func (h *JobCardHandler) handleJobCardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDueAt):
		response.BadRequest(c, 12001, err.Error())
	case errors.Is(err, service.ErrJobCardNotFound):
		response.NotFound(c, 12002, "任务卡不存在")
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 12003, "员工不存在")
	case errors.Is(err, service.ErrCustomerNotFound):
		response.NotFound(c, 12004, "客户不存在")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, 12005, "非法的任务状态迁移")
	default:
		response.InternalError(c)
	}
}
