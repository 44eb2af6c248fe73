package dto

// ── 员工目录 DTO ──

// AssignLocationRequest 设置员工归属地点请求（管理端）
// location_id 为 null 时解除归属
type AssignLocationRequest struct {
	LocationID *string `json:"location_id" binding:"omitempty,uuid"`
}

// WorkerResponse 员工信息响应
type WorkerResponse struct {
	WorkerID           string  `json:"worker_id"`
	Name               string  `json:"name"`
	AssignedLocationID *string `json:"assigned_location_id,omitempty"`
	IsActive           bool    `json:"is_active"`
}
