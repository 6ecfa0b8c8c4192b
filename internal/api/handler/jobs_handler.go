package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"fieldpulse/backend/internal/dto"
	"fieldpulse/backend/internal/service"
	"fieldpulse/backend/pkg/response"
)

// JobsHandler 后台作业手动触发入口（运维逃生通道）
// 三个作业均幂等，重复触发不会产生重复副作用
type JobsHandler struct {
	scoringSvc      service.ScoringService
	cadenceSvc      service.CadenceService
	notificationSvc service.NotificationService
}

// NewJobsHandler 创建 JobsHandler
func NewJobsHandler(
	scoringSvc service.ScoringService,
	cadenceSvc service.CadenceService,
	notificationSvc service.NotificationService,
) *JobsHandler {
	return &JobsHandler{
		scoringSvc:      scoringSvc,
		cadenceSvc:      cadenceSvc,
		notificationSvc: notificationSvc,
	}
}

// RunScoring 手动触发每日计分
// POST /api/v1/jobs/scoring/run
func (h *JobsHandler) RunScoring(c *gin.Context) {
	// 请求体可省略，缺省结算前一天
	var req dto.RunScoringRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
	}

	date := time.Now().UTC().AddDate(0, 0, -1)
	if req.Date != "" {
		var err error
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			response.BadRequest(c, 10001, "日期格式非法")
			return
		}
	}

	result, err := h.scoringSvc.RunDaily(c.Request.Context(), date)
	if err != nil {
		h.handleJobError(c, err)
		return
	}

	response.OK(c, result)
}

// RunCadence 手动触发任务节奏巡检
// POST /api/v1/jobs/cadence/run
func (h *JobsHandler) RunCadence(c *gin.Context) {
	result, err := h.cadenceSvc.Run(c.Request.Context(), time.Now())
	if err != nil {
		h.handleJobError(c, err)
		return
	}

	response.OK(c, result)
}

// RunReminders 手动触发到期任务提醒
// POST /api/v1/jobs/reminders/run
func (h *JobsHandler) RunReminders(c *gin.Context) {
	result, err := h.notificationSvc.RunDailyReminders(c.Request.Context(), time.Now())
	if err != nil {
		h.handleJobError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *JobsHandler) handleJobError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidDate) {
		response.BadRequest(c, 17001, err.Error())
		return
	}
	response.InternalError(c)
}
