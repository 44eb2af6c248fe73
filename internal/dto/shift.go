package dto

// ── 排班模块 DTO ──

// UpsertShiftRequest 创建/覆盖排班请求（管理端）
type UpsertShiftRequest struct {
	WorkerID  string `json:"worker_id"  binding:"required,uuid"`
	ShiftDate string `json:"shift_date" binding:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" binding:"required"` // RFC3339
	EndTime   string `json:"end_time"   binding:"required"` // RFC3339
}

// ImportShiftsICSRequest 从 ICS 日历导入排班请求
// url 与 content 二选一；content 为原始 ICS 文本
type ImportShiftsICSRequest struct {
	WorkerID string `json:"worker_id" binding:"required,uuid"`
	URL      string `json:"url"       binding:"omitempty,max=500"`
	Content  string `json:"content"   binding:"omitempty"`
}

// ImportShiftsICSResponse 导入结果
type ImportShiftsICSResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ShiftListRequest 排班查询参数
type ShiftListRequest struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to"   binding:"required,datetime=2006-01-02"`
}

// ShiftResponse 排班响应
type ShiftResponse struct {
	ShiftID   string `json:"shift_id"`
	WorkerID  string `json:"worker_id"`
	ShiftDate string `json:"shift_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Source    string `json:"source"`
}
