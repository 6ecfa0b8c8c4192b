package dto

import "encoding/json"

// ── 城市与围栏模块 DTO ──

// CreateCityRequest 创建城市请求
type CreateCityRequest struct {
	Name    string `json:"name"    binding:"required,min=1,max=120"`
	State   string `json:"state"   binding:"omitempty,max=120"`
	Country string `json:"country" binding:"omitempty,max=120"`
}

// SetGeofenceRequest 设置城市围栏请求
// circle 需提供 center_lat/center_lon/radius_meters；
// polygon 需提供 GeoJSON 风格 polygon；入库前经 pkg/geo 严格校验
type SetGeofenceRequest struct {
	FenceKind    string          `json:"fence_kind"    binding:"required,oneof=circle polygon"`
	CenterLat    *float64        `json:"center_lat"    binding:"omitempty"`
	CenterLon    *float64        `json:"center_lon"    binding:"omitempty"`
	RadiusMeters *float64        `json:"radius_meters" binding:"omitempty"`
	Polygon      json.RawMessage `json:"polygon"       binding:"omitempty"`
	AllowCheckin *bool           `json:"allow_checkin" binding:"omitempty"`
}

// GeofenceStatusRequest 围栏探测查询参数
type GeofenceStatusRequest struct {
	Lat float64 `form:"lat" binding:"required"`
	Lon float64 `form:"lon" binding:"required"`
}

// GeofenceStatusResponse 围栏探测响应
type GeofenceStatusResponse struct {
	CityID    string `json:"city_id"`
	HasFence  bool   `json:"has_fence"`
	FenceKind string `json:"fence_kind,omitempty"`
	Inside    bool   `json:"inside"`
}

// CityResponse 城市信息响应
type CityResponse struct {
	CityID       string          `json:"city_id"`
	Name         string          `json:"name"`
	State        string          `json:"state,omitempty"`
	Country      string          `json:"country,omitempty"`
	FenceKind    string          `json:"fence_kind,omitempty"`
	CenterLat    *float64        `json:"center_lat,omitempty"`
	CenterLon    *float64        `json:"center_lon,omitempty"`
	RadiusMeters *float64        `json:"radius_meters,omitempty"`
	Polygon      json.RawMessage `json:"polygon,omitempty"`
	AllowCheckin bool            `json:"allow_checkin"`
}
