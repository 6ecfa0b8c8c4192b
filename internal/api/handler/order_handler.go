package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fieldpulse/backend/internal/dto"
	"fieldpulse/backend/internal/service"
	"fieldpulse/backend/pkg/response"
)

// OrderHandler 订单模块 HTTP 处理器
type OrderHandler struct {
	orderSvc service.OrderService
}

// NewOrderHandler 创建 OrderHandler
func NewOrderHandler(orderSvc service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// CreateOrder 创建订单
// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	order, err := h.orderSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleOrderError(c, err)
		return
	}

	response.Created(c, order)
}

// ListOrders 获取订单列表
// GET /api/v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req dto.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	orders, err := h.orderSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": orders})
}

// handleOrderError 统一处理订单模块业务错误
func (h *OrderHandler) handleOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDate), errors.Is(err, service.ErrInvalidAmount):
		response.BadRequest(c, 15001, err.Error())
	case errors.Is(err, service.ErrCustomerNotFound):
		response.NotFound(c, 15002, "客户不存在")
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 15003, "员工不存在")
	default:
		response.InternalError(c)
	}
}
