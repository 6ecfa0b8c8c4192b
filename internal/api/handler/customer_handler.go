package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fieldpulse/backend/internal/dto"
	"fieldpulse/backend/internal/service"
	"fieldpulse/backend/pkg/response"
)

// CustomerHandler 客户模块 HTTP 处理器
type CustomerHandler struct {
	customerSvc service.CustomerService
}

// NewCustomerHandler 创建 CustomerHandler
func NewCustomerHandler(customerSvc service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerSvc: customerSvc}
}

// CreateCustomer 创建客户
// POST /api/v1/customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	customer, err := h.customerSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleCustomerError(c, err)
		return
	}

	response.Created(c, customer)
}

// ListCustomers 获取客户列表
// GET /api/v1/customers
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customerSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": customers})
}

// SearchCustomers 按名称或编码搜索客户
// GET /api/v1/customers/search
func (h *CustomerHandler) SearchCustomers(c *gin.Context) {
	var req dto.CustomerSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	customers, err := h.customerSvc.Search(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": customers})
}

// LogCommunication 记录一次客户联络
// POST /api/v1/communications
func (h *CustomerHandler) LogCommunication(c *gin.Context) {
	var req dto.CreateCommunicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.customerSvc.LogCommunication(c.Request.Context(), &req); err != nil {
		h.handleCustomerError(c, err)
		return
	}

	response.Created(c, nil)
}

// handleCustomerError 统一处理客户模块业务错误
func (h *CustomerHandler) handleCustomerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCustomerNotFound):
		response.NotFound(c, 14001, "客户不存在")
	case errors.Is(err, service.ErrCityNotFound):
		response.NotFound(c, 14002, "城市不存在")
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 14003, "员工不存在")
	default:
		response.InternalError(c)
	}
}
