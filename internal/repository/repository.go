package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Location     LocationRepository
	Worker       WorkerRepository
	Shift        ShiftRepository
	CheckInToken CheckInTokenRepository
	CheckIn      CheckInRepository
	Anomaly      AnomalyRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Location:     NewLocationRepo(db),
		Worker:       NewWorkerRepo(db),
		Shift:        NewShiftRepo(db),
		CheckInToken: NewCheckInTokenRepo(db),
		CheckIn:      NewCheckInRepo(db),
		Anomaly:      NewAnomalyRepo(db),
	}
}
