package model

// Worker 员工目录表 — 对应 workers
// 套件主数据的本地投影，签到引擎只关心归属地点
type Worker struct {
	WorkerID           string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"worker_id"`
	Name               string  `gorm:"type:varchar(50);not null"                      json:"name"`
	AssignedLocationID *string `gorm:"type:uuid"                                      json:"assigned_location_id,omitempty"`
	IsActive           bool    `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	AssignedLocation *Location `gorm:"foreignKey:AssignedLocationID;references:LocationID" json:"assigned_location,omitempty"`
}

// TableName 指定表名
func (Worker) TableName() string { return "workers" }
