package dto

// ── 签到 Token 模块 DTO ──

// IssueTokenRequest 发放签到 Token 请求（管理端）
// ttl 缺省使用配置的默认有效期；usage_mode 为 bounded 时 max_uses 必填
type IssueTokenRequest struct {
	TTLSeconds *int   `json:"ttl_seconds" binding:"omitempty,gt=0"`
	UsageMode  string `json:"usage_mode"  binding:"required,oneof=single_use bounded unlimited"`
	MaxUses    *int   `json:"max_uses"    binding:"omitempty,gt=0"`
}

// IssueTokenResponse 发放结果
// token 为可直接嵌入二维码的不透明字符串
type IssueTokenResponse struct {
	TokenID   string `json:"token_id"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// TokenResponse Token 台账响应（管理端列表）
type TokenResponse struct {
	TokenID     string `json:"token_id"`
	LocationID  string `json:"location_id"`
	UsageMode   string `json:"usage_mode"`
	MaxUses     int    `json:"max_uses"`
	CurrentUses int    `json:"current_uses"`
	Status      string `json:"status"`
	IssuedAt    string `json:"issued_at"`
	ExpiresAt   string `json:"expires_at"`
}
