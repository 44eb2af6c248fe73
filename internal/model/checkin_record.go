package model

import "time"

// 签到方式
const (
	CheckInMethodToken  = "token"
	CheckInMethodGeo    = "geo"
	CheckInMethodManual = "manual"
)

// 时效分类
const (
	TimelinessNormal      = "normal"
	TimelinessLate        = "late"
	TimelinessEarly       = "early"
	TimelinessUnscheduled = "unscheduled"
)

// CheckInRecord 签到记录表 — 对应 check_in_records
// (worker_id, check_in_date) 唯一，创建是引擎唯一的写入路径；
// distance_m 仅在启用围栏且提交了坐标时填充
type CheckInRecord struct {
	CheckInID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"check_in_id"`
	WorkerID         string    `gorm:"type:uuid;not null;uniqueIndex:uq_check_in_worker_date" json:"worker_id"`
	CheckInDate      time.Time `gorm:"type:date;not null;uniqueIndex:uq_check_in_worker_date" json:"check_in_date"`
	CheckInTime      time.Time `gorm:"not null"                                       json:"check_in_time"`
	Method           string    `gorm:"type:varchar(10);not null"                      json:"method"`
	LocationID       *string   `gorm:"type:uuid"                                      json:"location_id,omitempty"`
	Latitude         *float64  `json:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty"`
	DistanceM        *float64  `json:"distance_m,omitempty"`
	TimelinessStatus string    `gorm:"type:varchar(20);not null"                      json:"timeliness_status"`
	DeviceInfo       *string   `gorm:"type:varchar(200)"                              json:"device_info,omitempty"`
	PhotoURL         *string   `gorm:"type:varchar(500)"                              json:"photo_url,omitempty"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`

	// 关联
	Worker   *Worker   `gorm:"foreignKey:WorkerID;references:WorkerID"     json:"worker,omitempty"`
	Location *Location `gorm:"foreignKey:LocationID;references:LocationID" json:"location,omitempty"`
}

// TableName 指定表名
func (CheckInRecord) TableName() string { return "check_in_records" }
