package dto

// ── 异常复核模块 DTO ──

// AnomalyListRequest 异常列表查询参数
type AnomalyListRequest struct {
	OnlyUnresolved bool `form:"only_unresolved"`
}

// AnomalyResponse 异常记录响应
type AnomalyResponse struct {
	AnomalyID   string `json:"anomaly_id"`
	CheckInID   string `json:"check_in_id"`
	AnomalyType string `json:"anomaly_type"`
	Severity    string `json:"severity"`
	Details     string `json:"details,omitempty"`
	Resolved    bool   `json:"resolved"`
	CreatedAt   string `json:"created_at"`
}
