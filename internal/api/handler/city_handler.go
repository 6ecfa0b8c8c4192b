package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fieldpulse/backend/internal/dto"
	"fieldpulse/backend/internal/service"
	"fieldpulse/backend/pkg/response"
)

// CityHandler 城市与围栏模块 HTTP 处理器
type CityHandler struct {
	citySvc service.CityService
}

// NewCityHandler 创建 CityHandler
func NewCityHandler(citySvc service.CityService) *CityHandler {
	return &CityHandler{citySvc: citySvc}
}

// CreateCity 创建城市
// POST /api/v1/cities
func (h *CityHandler) CreateCity(c *gin.Context) {
	var req dto.CreateCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	city, err := h.citySvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleCityError(c, err)
		return
	}

	response.Created(c, city)
}

// ListCities 获取城市列表
// GET /api/v1/cities
func (h *CityHandler) ListCities(c *gin.Context) {
	cities, err := h.citySvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": cities})
}

// SetGeofence 设置城市围栏
// PUT /api/v1/cities/:id/geofence
func (h *CityHandler) SetGeofence(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "城市ID不能为空")
		return
	}

	var req dto.SetGeofenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	city, err := h.citySvc.SetGeofence(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCityError(c, err)
		return
	}

	response.OK(c, city)
}

// GeofenceStatus 围栏探测
// GET /api/v1/cities/:id/geofence-status
func (h *CityHandler) GeofenceStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "城市ID不能为空")
		return
	}

	var req dto.GeofenceStatusRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	status, err := h.citySvc.GeofenceStatus(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCityError(c, err)
		return
	}

	response.OK(c, status)
}

// handleCityError 统一处理城市模块业务错误
func (h *CityHandler) handleCityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidGPS):
		response.BadRequest(c, 13001, err.Error())
	case errors.Is(err, service.ErrInvalidFenceDef):
		response.BadRequest(c, 13002, "围栏定义非法")
	case errors.Is(err, service.ErrCityNotFound):
		response.NotFound(c, 13003, "城市不存在")
	case errors.Is(err, service.ErrFenceInvalid):
		response.Conflict(c, 13004, "已保存的围栏定义无法解析")
	default:
		response.InternalError(c)
	}
}
