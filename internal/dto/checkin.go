package dto

// ── 签到模块 DTO ──

// Coordinate 地理坐标
type Coordinate struct {
	Latitude  float64 `json:"latitude"  binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

// RecordCheckInRequest 签到请求
// token 与 coordinate 至少提供其一；仅提供坐标时按归属地点签到
type RecordCheckInRequest struct {
	Token      string      `json:"token"       binding:"omitempty"`
	Coordinate *Coordinate `json:"coordinate"  binding:"omitempty"`
	DeviceInfo string      `json:"device_info" binding:"omitempty,max=200"`
	PhotoURL   string      `json:"photo_url"   binding:"omitempty,max=500,url"`
}

// CheckInListRequest 签到记录查询参数（管理端）
type CheckInListRequest struct {
	LocationID string `form:"location_id" binding:"required,uuid"`
	From       string `form:"from"        binding:"required,datetime=2006-01-02"`
	To         string `form:"to"          binding:"required,datetime=2006-01-02"`
}

// ExportCheckInsRequest 签到记录导出参数
type ExportCheckInsRequest struct {
	LocationID string `form:"location_id" binding:"required,uuid"`
	Month      string `form:"month"       binding:"required,datetime=2006-01"`
}

// CheckInResponse 签到结果响应
// 异常不阻断成功结果，随成功载荷一并返回
type CheckInResponse struct {
	ID               string           `json:"id"`
	WorkerID         string           `json:"worker_id"`
	CheckInTime      string           `json:"check_in_time"`
	Method           string           `json:"method"`
	TimelinessStatus string           `json:"timeliness_status"`
	LocationID       string           `json:"location_id,omitempty"`
	DistanceM        *float64         `json:"distance_m,omitempty"`
	Anomaly          *AnomalyResponse `json:"anomaly,omitempty"`
}
