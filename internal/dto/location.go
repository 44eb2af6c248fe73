package dto

// ── 地点模块 DTO ──

// CreateLocationRequest 创建地点请求
type CreateLocationRequest struct {
	Name            string   `json:"name"             binding:"required,min=2,max=100"`
	Address         string   `json:"address"          binding:"omitempty,max=200"`
	Latitude        *float64 `json:"latitude"         binding:"omitempty,min=-90,max=90"`
	Longitude       *float64 `json:"longitude"        binding:"omitempty,min=-180,max=180"`
	AllowedRadiusM  *float64 `json:"allowed_radius_m" binding:"omitempty,gt=0"`
	GeofenceEnabled bool     `json:"geofence_enabled"`
	EarlyWindowMin  *int     `json:"early_window_min" binding:"omitempty,min=0,max=720"`
}

// UpdateLocationRequest 更新地点请求
type UpdateLocationRequest struct {
	Name            *string  `json:"name"             binding:"omitempty,min=2,max=100"`
	Address         *string  `json:"address"          binding:"omitempty,max=200"`
	Latitude        *float64 `json:"latitude"         binding:"omitempty,min=-90,max=90"`
	Longitude       *float64 `json:"longitude"        binding:"omitempty,min=-180,max=180"`
	AllowedRadiusM  *float64 `json:"allowed_radius_m" binding:"omitempty,gt=0"`
	GeofenceEnabled *bool    `json:"geofence_enabled"`
	EarlyWindowMin  *int     `json:"early_window_min" binding:"omitempty,min=0,max=720"`
	IsActive        *bool    `json:"is_active"`
}

// LocationListRequest 地点列表查询参数
type LocationListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// LocationResponse 地点信息响应
type LocationResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Address         string   `json:"address,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	AllowedRadiusM  float64  `json:"allowed_radius_m"`
	GeofenceEnabled bool     `json:"geofence_enabled"`
	EarlyWindowMin  int      `json:"early_window_min"`
	IsActive        bool     `json:"is_active"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}
