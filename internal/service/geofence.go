package service

import (
	"math"

	"shiftpass/backend/internal/dto"
	"shiftpass/backend/internal/model"
)

// ── 地理围栏评估器 ──
//
// 软策略：围栏越界不阻断签到，只产生异常记录供人工复核，
// 由 CheckInService 在写入成功后落异常

// earthRadiusM 地球半径（米），haversine 公式使用
const earthRadiusM = 6371000.0

// GeofenceResult 围栏评估结果
// 围栏未启用或坐标缺失时为"跳过"：WithinRadius=true 且 DistanceM=nil
type GeofenceResult struct {
	WithinRadius bool
	DistanceM    *float64
}

// GeofenceEvaluator 地理围栏评估器（无状态，可跨请求共享）
type GeofenceEvaluator struct {
	defaultRadiusM float64
}

// NewGeofenceEvaluator 创建评估器，defaultRadiusM 用于地点未配置半径的兜底
func NewGeofenceEvaluator(defaultRadiusM float64) *GeofenceEvaluator {
	return &GeofenceEvaluator{defaultRadiusM: defaultRadiusM}
}

// DistanceMeters 计算两点间大圆距离（haversine）
func (e *GeofenceEvaluator) DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	rLat1 := lat1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Evaluate 评估提交坐标与注册地点的距离是否在允许半径内
func (e *GeofenceEvaluator) Evaluate(loc *model.Location, coord *dto.Coordinate) GeofenceResult {
	if !loc.GeofenceEnabled || coord == nil || loc.Latitude == nil || loc.Longitude == nil {
		// 跳过评估，视为通过
		return GeofenceResult{WithinRadius: true, DistanceM: nil}
	}

	distance := e.DistanceMeters(*loc.Latitude, *loc.Longitude, coord.Latitude, coord.Longitude)

	radius := loc.AllowedRadiusM
	if radius <= 0 {
		radius = e.defaultRadiusM
	}

	return GeofenceResult{
		WithinRadius: distance <= radius,
		DistanceM:    &distance,
	}
}
