package model

import "time"

// 异常类型
const (
	AnomalyTypeOutsideGeofence = "location_outside_geofence"
)

// 异常严重级别
const (
	AnomalySeverityLow    = "low"
	AnomalySeverityMedium = "medium"
	AnomalySeverityHigh   = "high"
)

// Anomaly 异常记录表 — 对应 anomalies
// 仅在软失败条件（如围栏越界）时创建，挂在成功的签到记录上，
// 供后续人工复核；不阻断签到本身
type Anomaly struct {
	AnomalyID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"anomaly_id"`
	CheckInID   string     `gorm:"type:uuid;not null"                             json:"check_in_id"`
	AnomalyType string     `gorm:"type:varchar(40);not null"                      json:"anomaly_type"`
	Severity    string     `gorm:"type:varchar(10);not null;default:'medium'"     json:"severity"`
	Details     string     `gorm:"type:text"                                      json:"details,omitempty"`
	Resolved    bool       `gorm:"not null;default:false"                         json:"resolved"`
	ResolvedBy  *string    `gorm:"type:uuid"                                      json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`

	// 关联
	CheckIn *CheckInRecord `gorm:"foreignKey:CheckInID;references:CheckInID" json:"check_in,omitempty"`
}

// TableName 指定表名
func (Anomaly) TableName() string { return "anomalies" }
