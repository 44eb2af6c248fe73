package model

import "time"

// Token 用量模式
const (
	TokenModeSingleUse = "single_use"
	TokenModeBounded   = "bounded"
	TokenModeUnlimited = "unlimited"
)

// Token 状态（全部为终态，除 active 外不可逆）
const (
	TokenStatusActive        = "active"
	TokenStatusConsumed      = "consumed"
	TokenStatusUsageExceeded = "usage_exceeded"
	TokenStatusExpired       = "expired"
	TokenStatusRevoked       = "revoked"
)

// CheckInToken 签到 Token 用量台账 — 对应 check_in_tokens
// Token 字符串本身是签名 JWT，不落库；本表按 jti 记录用量与状态。
// 只停用不删除，保留审计轨迹；current_uses 单调不减且恒 ≤ max_uses
type CheckInToken struct {
	TokenID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"token_id"`
	LocationID  string    `gorm:"type:uuid;not null"                             json:"location_id"`
	UsageMode   string    `gorm:"type:varchar(20);not null;default:'single_use'" json:"usage_mode"`
	MaxUses     int       `gorm:"not null;default:1"                             json:"max_uses"`
	CurrentUses int       `gorm:"not null;default:0"                             json:"current_uses"`
	Status      string    `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	IssuedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"issued_at"`
	ExpiresAt   time.Time `gorm:"not null"                                       json:"expires_at"`
	BaseModel

	// 关联
	Location *Location `gorm:"foreignKey:LocationID;references:LocationID" json:"location,omitempty"`
}

// TableName 指定表名
func (CheckInToken) TableName() string { return "check_in_tokens" }

// Exhausted 用量预算是否已耗尽（unlimited 模式永不耗尽）
func (t *CheckInToken) Exhausted() bool {
	if t.UsageMode == TokenModeUnlimited {
		return false
	}
	return t.CurrentUses >= t.MaxUses
}
