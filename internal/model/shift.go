package model

import "time"

// 排班来源
const (
	ShiftSourceManual = "manual"
	ShiftSourceICS    = "ics"
)

// Shift 排班表 — 对应 shifts
// 每员工每日期唯一；对签到引擎只读，缺班不视为错误
type Shift struct {
	ShiftID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	WorkerID  string    `gorm:"type:uuid;not null;uniqueIndex:uq_shifts_worker_date" json:"worker_id"`
	ShiftDate time.Time `gorm:"type:date;not null;uniqueIndex:uq_shifts_worker_date" json:"shift_date"`
	StartTime time.Time `gorm:"not null"                                       json:"start_time"`
	EndTime   time.Time `gorm:"not null"                                       json:"end_time"`
	Source    string    `gorm:"type:varchar(20);not null;default:'manual'"     json:"source"`
	BaseModel
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }
