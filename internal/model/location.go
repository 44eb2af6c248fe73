package model

// Location 门店/地点档案表 — 对应 locations
// 地理围栏参数（经纬度、允许半径、提前窗口）随地点注册，
// 未配置坐标或未启用围栏时签到跳过距离校验
type Location struct {
	LocationID      string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"location_id"`
	Name            string   `gorm:"type:varchar(100);not null"                     json:"name"`
	Address         string   `gorm:"type:varchar(200)"                              json:"address,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	AllowedRadiusM  float64  `gorm:"not null;default:100"                           json:"allowed_radius_m"`
	GeofenceEnabled bool     `gorm:"not null;default:false"                         json:"geofence_enabled"`
	EarlyWindowMin  int      `gorm:"not null;default:30"                            json:"early_window_min"`
	IsActive        bool     `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Location) TableName() string { return "locations" }
