package repository

import (
	"context"

	"gorm.io/gorm"

	"fieldpulse/backend/internal/model"
)

// CityRepository 城市数据访问接口
type CityRepository interface {
	Create(ctx context.Context, city *model.City) error
	GetByID(ctx context.Context, id string) (*model.City, error)
	List(ctx context.Context) ([]model.City, error)
	Update(ctx context.Context, city *model.City) error
}

type cityRepo struct {
	db *gorm.DB
}

// NewCityRepo 创建 CityRepository 实例
func NewCityRepo(db *gorm.DB) CityRepository {
	return &cityRepo{db: db}
}

func (r *cityRepo) Create(ctx context.Context, city *model.City) error {
	return r.db.WithContext(ctx).Create(city).Error
}

func (r *cityRepo) GetByID(ctx context.Context, id string) (*model.City, error) {
	var city model.City
	err := r.db.WithContext(ctx).
		Where("city_id = ?", id).
		First(&city).Error
	if err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *cityRepo) List(ctx context.Context) ([]model.City, error) {
	var cities []model.City
	err := r.db.WithContext(ctx).Order("name ASC").Find(&cities).Error
	return cities, err
}

func (r *cityRepo) Update(ctx context.Context, city *model.City) error {
	return r.db.WithContext(ctx).Save(city).Error
}
