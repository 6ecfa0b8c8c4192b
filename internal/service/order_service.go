package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fieldpulse/backend/internal/dto"
	"fieldpulse/backend/internal/model"
	"fieldpulse/backend/internal/repository"
)

var ErrInvalidAmount = errors.New("金额或包数格式非法")

const orderListLimit = 100

// OrderService 订单业务接口（计分作业的输入来源）
type OrderService interface {
	Create(ctx context.Context, req *dto.CreateOrderRequest) (*dto.OrderResponse, error)
	List(ctx context.Context, req *dto.OrderListRequest) ([]dto.OrderResponse, error)
}

type orderService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOrderService 创建 OrderService 实例
func NewOrderService(repo *repository.Repository, logger *zap.Logger) OrderService {
	return &orderService{repo: repo, logger: logger}
}

func (s *orderService) Create(ctx context.Context, req *dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if _, err := s.repo.Customer.GetByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	orderDate, err := time.Parse("2006-01-02", req.OrderDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	bales := decimal.Zero
	if req.TotalBales != "" {
		bales, err = decimal.NewFromString(req.TotalBales)
		if err != nil || bales.IsNegative() {
			return nil, ErrInvalidAmount
		}
	}
	amount := decimal.Zero
	if req.TotalAmount != "" {
		amount, err = decimal.NewFromString(req.TotalAmount)
		if err != nil || amount.IsNegative() {
			return nil, ErrInvalidAmount
		}
	}

	order := &model.Order{
		CustomerID:  req.CustomerID,
		OrderDate:   orderDate,
		Status:      model.OrderStatusConfirmed,
		TotalBales:  bales,
		TotalAmount: amount,
	}
	if req.EmployeeID != "" {
		if _, err := s.repo.Employee.GetByID(ctx, req.EmployeeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrEmployeeNotFound
			}
			return nil, err
		}
		order.EmployeeID = &req.EmployeeID
	}

	if err := s.repo.Order.Create(ctx, order); err != nil {
		s.logger.Error("创建订单失败", zap.String("customer_id", req.CustomerID), zap.Error(err))
		return nil, err
	}
	return toOrderResponse(order), nil
}

func (s *orderService) List(ctx context.Context, req *dto.OrderListRequest) ([]dto.OrderResponse, error) {
	orders, err := s.repo.Order.List(ctx, req.EmployeeID, orderListLimit)
	if err != nil {
		s.logger.Error("查询订单列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		result = append(result, *toOrderResponse(&orders[i]))
	}
	return result, nil
}

func toOrderResponse(order *model.Order) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		OrderID:     order.OrderID,
		CustomerID:  order.CustomerID,
		OrderDate:   order.OrderDate.Format("2006-01-02"),
		Status:      order.Status,
		TotalBales:  order.TotalBales.StringFixed(2),
		TotalAmount: order.TotalAmount.StringFixed(2),
	}
	if order.EmployeeID != nil {
		resp.EmployeeID = *order.EmployeeID
	}
	return resp
}
