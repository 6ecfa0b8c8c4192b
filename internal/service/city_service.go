package service

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"fieldpulse/backend/internal/dto"
	"fieldpulse/backend/internal/model"
	"fieldpulse/backend/internal/repository"
	"fieldpulse/backend/pkg/geo"
)

var ErrInvalidFenceDef = errors.New("围栏定义非法")

// CityService 城市与围栏管理业务接口
type CityService interface {
	Create(ctx context.Context, req *dto.CreateCityRequest) (*dto.CityResponse, error)
	List(ctx context.Context) ([]dto.CityResponse, error)
	// SetGeofence 入库前经 pkg/geo 严格校验，坏定义直接拒绝
	SetGeofence(ctx context.Context, cityID string, req *dto.SetGeofenceRequest) (*dto.CityResponse, error)
	// GeofenceStatus 围栏探测：某坐标是否在城市围栏内
	GeofenceStatus(ctx context.Context, cityID string, req *dto.GeofenceStatusRequest) (*dto.GeofenceStatusResponse, error)
}

type cityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCityService 创建 CityService 实例
func NewCityService(repo *repository.Repository, logger *zap.Logger) CityService {
	return &cityService{repo: repo, logger: logger}
}

func (s *cityService) Create(ctx context.Context, req *dto.CreateCityRequest) (*dto.CityResponse, error) {
	city := &model.City{
		Name:         req.Name,
		State:        req.State,
		Country:      req.Country,
		AllowCheckin: true,
	}
	if err := s.repo.City.Create(ctx, city); err != nil {
		s.logger.Error("创建城市失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	return toCityResponse(city), nil
}

func (s *cityService) List(ctx context.Context) ([]dto.CityResponse, error) {
	cities, err := s.repo.City.List(ctx)
	if err != nil {
		s.logger.Error("查询城市列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CityResponse, 0, len(cities))
	for i := range cities {
		result = append(result, *toCityResponse(&cities[i]))
	}
	return result, nil
}

func (s *cityService) SetGeofence(ctx context.Context, cityID string, req *dto.SetGeofenceRequest) (*dto.CityResponse, error) {
	city, err := s.repo.City.GetByID(ctx, cityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCityNotFound
		}
		return nil, err
	}

	// 定义时即按打卡时同样的规则校验，坏围栏不入库
	if _, err := geo.ParseFence(req.FenceKind, req.CenterLat, req.CenterLon, req.RadiusMeters, req.Polygon); err != nil {
		return nil, ErrInvalidFenceDef
	}

	kind := req.FenceKind
	city.FenceKind = &kind
	city.CenterLat = req.CenterLat
	city.CenterLon = req.CenterLon
	city.RadiusMeters = req.RadiusMeters
	if req.FenceKind == geo.FencePolygon {
		city.Polygon = datatypes.JSON(req.Polygon)
		city.CenterLat = nil
		city.CenterLon = nil
		city.RadiusMeters = nil
	} else {
		city.Polygon = nil
	}
	if req.AllowCheckin != nil {
		city.AllowCheckin = *req.AllowCheckin
	}

	if err := s.repo.City.Update(ctx, city); err != nil {
		s.logger.Error("保存围栏失败", zap.String("city_id", cityID), zap.Error(err))
		return nil, err
	}
	return toCityResponse(city), nil
}

func (s *cityService) GeofenceStatus(ctx context.Context, cityID string, req *dto.GeofenceStatusRequest) (*dto.GeofenceStatusResponse, error) {
	if err := geo.ValidateCoordinates(req.Lat, req.Lon); err != nil {
		return nil, ErrInvalidGPS
	}

	city, err := s.repo.City.GetByID(ctx, cityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCityNotFound
		}
		return nil, err
	}

	resp := &dto.GeofenceStatusResponse{CityID: city.CityID}
	if !city.HasFence() {
		return resp, nil
	}
	resp.HasFence = true
	resp.FenceKind = *city.FenceKind

	fence, err := geo.ParseFence(*city.FenceKind, city.CenterLat, city.CenterLon, city.RadiusMeters, city.Polygon)
	if err != nil {
		return nil, ErrFenceInvalid
	}
	resp.Inside = fence.Contains(req.Lat, req.Lon)
	return resp, nil
}

func toCityResponse(city *model.City) *dto.CityResponse {
	resp := &dto.CityResponse{
		CityID:       city.CityID,
		Name:         city.Name,
		State:        city.State,
		Country:      city.Country,
		CenterLat:    city.CenterLat,
		CenterLon:    city.CenterLon,
		RadiusMeters: city.RadiusMeters,
		AllowCheckin: city.AllowCheckin,
	}
	if city.FenceKind != nil {
		resp.FenceKind = *city.FenceKind
	}
	if len(city.Polygon) > 0 {
		resp.Polygon = json.RawMessage(city.Polygon)
	}
	return resp
}
