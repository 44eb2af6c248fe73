package service

import (
	"math"
	"testing"

	"shiftpass/backend/internal/dto"
	"shiftpass/backend/internal/model"
)

// ── 地理围栏测试 ──

func f64(v float64) *float64 { return &v }

func TestGeofence_DistanceMeters_SamePoint(t *testing.T) {
	e := NewGeofenceEvaluator(100)

	d := e.DistanceMeters(31.2304, 121.4737, 31.2304, 121.4737)
	if d != 0 {
		t.Errorf("同一点距离应为 0，实际 %.6f", d)
	}
}

func TestGeofence_DistanceMeters_Symmetry(t *testing.T) {
	e := NewGeofenceEvaluator(100)

	d1 := e.DistanceMeters(31.2304, 121.4737, 39.9042, 116.4074)
	d2 := e.DistanceMeters(39.9042, 116.4074, 31.2304, 121.4737)
	if math.Abs(d1-d2) > 1e-6 {
		t.Errorf("距离应对称：%.6f vs %.6f", d1, d2)
	}
}

func TestGeofence_DistanceMeters_KnownDistance(t *testing.T) {
	e := NewGeofenceEvaluator(100)

	// 上海人民广场 → 北京天安门，约 1068 公里
	d := e.DistanceMeters(31.2304, 121.4737, 39.9042, 116.4074)
	if d < 1050_000 || d > 1090_000 {
		t.Errorf("沪京距离应约 1068km，实际 %.0fm", d)
	}
}

func TestGeofence_Evaluate_WithinRadius(t *testing.T) {
	e := NewGeofenceEvaluator(100)
	loc := &model.Location{
		Latitude:        f64(31.2304),
		Longitude:       f64(121.4737),
		AllowedRadiusM:  100,
		GeofenceEnabled: true,
	}

	// 纬度 0.0005° ≈ 55m
	result := e.Evaluate(loc, &dto.Coordinate{Latitude: 31.2309, Longitude: 121.4737})
	if !result.WithinRadius {
		t.Error("55m 应在 100m 半径内")
	}
	if result.DistanceM == nil {
		t.Fatal("启用围栏且有坐标时应返回距离")
	}
	if *result.DistanceM < 50 || *result.DistanceM > 60 {
		t.Errorf("期望距离约 55m，实际 %.1fm", *result.DistanceM)
	}
}

func TestGeofence_Evaluate_OutsideRadius(t *testing.T) {
	e := NewGeofenceEvaluator(100)
	loc := &model.Location{
		Latitude:        f64(31.2304),
		Longitude:       f64(121.4737),
		AllowedRadiusM:  100,
		GeofenceEnabled: true,
	}

	// 纬度 0.0015° ≈ 166m
	result := e.Evaluate(loc, &dto.Coordinate{Latitude: 31.2319, Longitude: 121.4737})
	if result.WithinRadius {
		t.Errorf("166m 不应在 100m 半径内（实际距离 %.1fm）", *result.DistanceM)
	}
}

func TestGeofence_Evaluate_SkipCases(t *testing.T) {
	e := NewGeofenceEvaluator(100)

	cases := []struct {
		name  string
		loc   *model.Location
		coord *dto.Coordinate
	}{
		{
			"围栏未启用",
			&model.Location{Latitude: f64(31.23), Longitude: f64(121.47), GeofenceEnabled: false},
			&dto.Coordinate{Latitude: 39.90, Longitude: 116.40},
		},
		{
			"坐标缺失",
			&model.Location{Latitude: f64(31.23), Longitude: f64(121.47), GeofenceEnabled: true},
			nil,
		},
		{
			"地点未配置坐标",
			&model.Location{GeofenceEnabled: true},
			&dto.Coordinate{Latitude: 31.23, Longitude: 121.47},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := e.Evaluate(tc.loc, tc.coord)
			if !result.WithinRadius {
				t.Error("跳过评估应视为通过")
			}
			if result.DistanceM != nil {
				t.Error("跳过评估不应返回距离")
			}
		})
	}
}

func TestGeofence_Evaluate_DefaultRadiusFallback(t *testing.T) {
	// 地点未配置半径时回落到默认 200m
	e := NewGeofenceEvaluator(200)
	loc := &model.Location{
		Latitude:        f64(31.2304),
		Longitude:       f64(121.4737),
		AllowedRadiusM:  0,
		GeofenceEnabled: true,
	}

	// 约 166m：在默认 200m 内
	result := e.Evaluate(loc, &dto.Coordinate{Latitude: 31.2319, Longitude: 121.4737})
	if !result.WithinRadius {
		t.Errorf("默认半径 200m 应覆盖 %.1fm", *result.DistanceM)
	}
}
