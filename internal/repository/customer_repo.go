package repository

import (
	"context"

	"gorm.io/gorm"

	"fieldpulse/backend/internal/model"
)

// CustomerRepository 客户数据访问接口
type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	GetByID(ctx context.Context, id string) (*model.Customer, error)
	List(ctx context.Context, activeOnly bool) ([]model.Customer, error)
	Search(ctx context.Context, query string, limit int) ([]model.Customer, error)
	ListActiveByCity(ctx context.Context, cityID string) ([]model.Customer, error)
}

type customerRepo struct {
	db *gorm.DB
}

// NewCustomerRepo 创建 CustomerRepository 实例
func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db: db}
}

func (r *customerRepo) Create(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepo) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", id).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) List(ctx context.Context, activeOnly bool) ([]model.Customer, error) {
	var customers []model.Customer
	db := r.db.WithContext(ctx)

	if activeOnly {
		db = db.Where("is_active = ?", true)
	}

	err := db.Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Search(ctx context.Context, query string, limit int) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("name ILIKE ? OR code ILIKE ?", "%"+query+"%", "%"+query+"%").
		Order("name ASC").
		Limit(limit).
		Find(&customers).Error
	return customers, err
}

func (r *customerRepo) ListActiveByCity(ctx context.Context, cityID string) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).
		Where("city_id = ? AND is_active = ?", cityID, true).
		Order("name ASC").
		Find(&customers).Error
	return customers, err
}
