package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fieldpulse/backend/internal/dto"
	"fieldpulse/backend/internal/model"
	"fieldpulse/backend/internal/repository"
)

var ErrCustomerNotFound = errors.New("客户不存在")

const customerSearchLimit = 20

// CustomerService 客户与联络记录业务接口
type CustomerService interface {
	Create(ctx context.Context, req *dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	List(ctx context.Context) ([]dto.CustomerResponse, error)
	Search(ctx context.Context, req *dto.CustomerSearchRequest) ([]dto.CustomerResponse, error)
	// LogCommunication 记录一次客户联络，节奏引擎与计分作业的输入
	LogCommunication(ctx context.Context, req *dto.CreateCommunicationRequest) error
}

type customerService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewCustomerService 创建 CustomerService 实例
func NewCustomerService(repo *repository.Repository, logger *zap.Logger) CustomerService {
	return &customerService{repo: repo, logger: logger, now: time.Now}
}

func (s *customerService) Create(ctx context.Context, req *dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer := &model.Customer{
		Name:     req.Name,
		Code:     req.Code,
		Phone:    req.Phone,
		Email:    req.Email,
		IsActive: true,
	}
	if req.CityID != "" {
		if _, err := s.repo.City.GetByID(ctx, req.CityID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCityNotFound
			}
			return nil, err
		}
		customer.CityID = &req.CityID
	}
	if req.OwnerEmployeeID != "" {
		if _, err := s.repo.Employee.GetByID(ctx, req.OwnerEmployeeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrEmployeeNotFound
			}
			return nil, err
		}
		customer.OwnerEmployeeID = &req.OwnerEmployeeID
	}

	if err := s.repo.Customer.Create(ctx, customer); err != nil {
		s.logger.Error("创建客户失败", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

func (s *customerService) List(ctx context.Context) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.Customer.List(ctx, false)
	if err != nil {
		s.logger.Error("查询客户列表失败", zap.Error(err))
		return nil, err
	}
	return toCustomerResponses(customers), nil
}

func (s *customerService) Search(ctx context.Context, req *dto.CustomerSearchRequest) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.Customer.Search(ctx, req.Query, customerSearchLimit)
	if err != nil {
		s.logger.Error("客户搜索失败", zap.String("query", req.Query), zap.Error(err))
		return nil, err
	}
	return toCustomerResponses(customers), nil
}

func (s *customerService) LogCommunication(ctx context.Context, req *dto.CreateCommunicationRequest) error {
	if _, err := s.repo.Customer.GetByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCustomerNotFound
		}
		return err
	}

	log := &model.CommunicationLog{
		CustomerID: &req.CustomerID,
		Channel:    req.Channel,
		Direction:  "OUT",
		Kind:       model.CommKindGeneral,
		Body:       req.Body,
		LoggedAt:   s.now().UTC(),
	}
	if req.EmployeeID != "" {
		if _, err := s.repo.Employee.GetByID(ctx, req.EmployeeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmployeeNotFound
			}
			return err
		}
		log.EmployeeID = &req.EmployeeID
	}
	if req.Direction != "" {
		log.Direction = req.Direction
	}
	if req.Kind != "" {
		log.Kind = req.Kind
	}

	if err := s.repo.Communication.Create(ctx, log); err != nil {
		s.logger.Error("记录联络失败", zap.String("customer_id", req.CustomerID), zap.Error(err))
		return err
	}
	return nil
}

func toCustomerResponses(customers []model.Customer) []dto.CustomerResponse {
	result := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		result = append(result, *toCustomerResponse(&customers[i]))
	}
	return result
}

func toCustomerResponse(customer *model.Customer) *dto.CustomerResponse {
	resp := &dto.CustomerResponse{
		CustomerID: customer.CustomerID,
		Name:       customer.Name,
		Code:       customer.Code,
		Phone:      customer.Phone,
		Email:      customer.Email,
		IsActive:   customer.IsActive,
	}
	if customer.CityID != nil {
		resp.CityID = *customer.CityID
	}
	if customer.OwnerEmployeeID != nil {
		resp.OwnerEmployeeID = *customer.OwnerEmployeeID
	}
	return resp
}
