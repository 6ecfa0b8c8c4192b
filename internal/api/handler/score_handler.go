package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fieldpulse/backend/internal/dto"
	"fieldpulse/backend/internal/service"
	"fieldpulse/backend/pkg/response"
)

// ScoreHandler 计分排行榜 HTTP 处理器
type ScoreHandler struct {
	scoringSvc service.ScoringService
}

// NewScoreHandler 创建 ScoreHandler
func NewScoreHandler(scoringSvc service.ScoringService) *ScoreHandler {
	return &ScoreHandler{scoringSvc: scoringSvc}
}

// Leaderboard 每日积分排行榜
// GET /api/v1/leaderboard
func (h *ScoreHandler) Leaderboard(c *gin.Context) {
	var req dto.LeaderboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entries, err := h.scoringSvc.Leaderboard(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			response.BadRequest(c, 16001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": entries})
}
