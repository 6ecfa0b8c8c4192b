package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// 地球平均半径（米）
const earthRadiusMeters = 6371000

// 射线法分母保护值，避免水平/垂直边导致除零
const epsilon = 1e-9

var (
	// ErrInvalidCoordinates 坐标超出合法范围或格式非法
	ErrInvalidCoordinates = errors.New("GPS 坐标非法")
	// ErrInvalidFence 围栏定义非法（缺字段、解析失败、顶点不足等）
	ErrInvalidFence = errors.New("围栏定义非法")
)

// Point 经纬度点
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ValidateCoordinates 校验经纬度是否在合法范围内
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return fmt.Errorf("%w: 坐标不是数字", ErrInvalidCoordinates)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: 纬度必须在 -90 到 90 之间", ErrInvalidCoordinates)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("%w: 经度必须在 -180 到 180 之间", ErrInvalidCoordinates)
	}
	return nil
}

// Distance 计算两点间的 Haversine 大圆距离（米）
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	rLat1 := lat1 * math.Pi / 180
	rLon1 := lon1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180
	rLon2 := lon2 * math.Pi / 180

	dLat := rLat2 - rLat1
	dLon := rLon2 - rLon1

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return c * earthRadiusMeters
}

// InsideCircle 判断点是否在圆形围栏内（边界视为在内）
func InsideCircle(lat, lon, centerLat, centerLon, radiusMeters float64) bool {
	return Distance(lat, lon, centerLat, centerLon) <= radiusMeters
}

// InsidePolygon 射线法判断点是否在多边形围栏内
// 从待测点向水平方向引射线，统计与多边形边的交点数，奇数次为内部
func InsidePolygon(lat, lon float64, vertices []Point) bool {
	if len(vertices) < 3 {
		return false
	}

	x, y := lon, lat
	inside := false
	n := len(vertices)

	for i := 0; i < n; i++ {
		x1, y1 := vertices[(i+n-1)%n].Lon, vertices[(i+n-1)%n].Lat
		x2, y2 := vertices[i].Lon, vertices[i].Lat

		if (y1 > y) != (y2 > y) {
			xinters := (x2-x1)*(y-y1)/(y2-y1+epsilon) + x1
			if x < xinters {
				inside = !inside
			}
		}
	}

	return inside
}

// ── 围栏定义 ──

// 围栏类型
const (
	FenceCircle  = "circle"
	FencePolygon = "polygon"
)

// Fence 已解析的围栏，可直接做包含判断
type Fence struct {
	Kind      string
	CenterLat float64
	CenterLon float64
	RadiusM   float64
	Vertices  []Point
}

// geoJSONPolygon GeoJSON 风格的多边形载荷：{"coordinates": [[[lon,lat], ...]]}
type geoJSONPolygon struct {
	Coordinates [][][]float64 `json:"coordinates"`
}

// ParseFence 解析并校验围栏定义
// 任何缺失/非法的定义都返回错误，由调用方拒绝打卡（宁可拒绝，不默认放行）
func ParseFence(kind string, centerLat, centerLon *float64, radiusMeters *float64, polygonJSON []byte) (*Fence, error) {
	switch kind {
	case FenceCircle:
		if centerLat == nil || centerLon == nil || radiusMeters == nil {
			return nil, fmt.Errorf("%w: 圆形围栏缺少圆心或半径", ErrInvalidFence)
		}
		if err := ValidateCoordinates(*centerLat, *centerLon); err != nil {
			return nil, fmt.Errorf("%w: 圆心坐标非法", ErrInvalidFence)
		}
		if *radiusMeters <= 0 {
			return nil, fmt.Errorf("%w: 半径必须大于 0", ErrInvalidFence)
		}
		return &Fence{
			Kind:      FenceCircle,
			CenterLat: *centerLat,
			CenterLon: *centerLon,
			RadiusM:   *radiusMeters,
		}, nil

	case FencePolygon:
		if len(polygonJSON) == 0 {
			return nil, fmt.Errorf("%w: 多边形围栏缺少坐标数据", ErrInvalidFence)
		}
		var poly geoJSONPolygon
		if err := json.Unmarshal(polygonJSON, &poly); err != nil {
			return nil, fmt.Errorf("%w: 多边形 JSON 解析失败: %v", ErrInvalidFence, err)
		}
		if len(poly.Coordinates) == 0 || len(poly.Coordinates[0]) < 3 {
			return nil, fmt.Errorf("%w: 多边形至少需要 3 个顶点", ErrInvalidFence)
		}
		ring := poly.Coordinates[0]
		vertices := make([]Point, 0, len(ring))
		for _, c := range ring {
			if len(c) < 2 {
				return nil, fmt.Errorf("%w: 顶点坐标不完整", ErrInvalidFence)
			}
			// GeoJSON 顺序为 [lon, lat]
			p := Point{Lat: c[1], Lon: c[0]}
			if err := ValidateCoordinates(p.Lat, p.Lon); err != nil {
				return nil, fmt.Errorf("%w: 顶点坐标非法", ErrInvalidFence)
			}
			vertices = append(vertices, p)
		}
		return &Fence{Kind: FencePolygon, Vertices: vertices}, nil

	default:
		return nil, fmt.Errorf("%w: 未知围栏类型 %q", ErrInvalidFence, kind)
	}
}

// Contains 判断点是否在围栏内
func (f *Fence) Contains(lat, lon float64) bool {
	switch f.Kind {
	case FenceCircle:
		return InsideCircle(lat, lon, f.CenterLat, f.CenterLon, f.RadiusM)
	case FencePolygon:
		return InsidePolygon(lat, lon, f.Vertices)
	default:
		return false
	}
}
