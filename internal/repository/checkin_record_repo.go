package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"shiftpass/backend/internal/model"
)

// CheckInRepository 签到记录数据访问接口
// Create 依赖 (worker_id, check_in_date) 唯一约束实现幂等写入：
// 约束冲突经 TranslateError 映射为 gorm.ErrDuplicatedKey，
// 由 Service 层判定为"重复签到"终态而非一般存储错误
type CheckInRepository interface {
	Create(ctx context.Context, record *model.CheckInRecord) error
	GetByWorkerAndDate(ctx context.Context, workerID string, date time.Time) (*model.CheckInRecord, error)
	ListByLocation(ctx context.Context, locationID string, from, to time.Time) ([]model.CheckInRecord, error)
	ListByWorker(ctx context.Context, workerID string, from, to time.Time) ([]model.CheckInRecord, error)
}

type checkInRepo struct {
	db *gorm.DB
}

// NewCheckInRepo 创建 CheckInRepository 实例
func NewCheckInRepo(db *gorm.DB) CheckInRepository {
	return &checkInRepo{db: db}
}

func (r *checkInRepo) Create(ctx context.Context, record *model.CheckInRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *checkInRepo) GetByWorkerAndDate(ctx context.Context, workerID string, date time.Time) (*model.CheckInRecord, error) {
	var record model.CheckInRecord
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND check_in_date = ?", workerID, date.Format("2006-01-02")).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *checkInRepo) ListByLocation(ctx context.Context, locationID string, from, to time.Time) ([]model.CheckInRecord, error) {
	var records []model.CheckInRecord
	err := r.db.WithContext(ctx).
		Preload("Worker").
		Where("location_id = ? AND check_in_date BETWEEN ? AND ?",
			locationID, from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("check_in_time ASC").
		Find(&records).Error
	return records, err
}

func (r *checkInRepo) ListByWorker(ctx context.Context, workerID string, from, to time.Time) ([]model.CheckInRecord, error) {
	var records []model.CheckInRecord
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND check_in_date BETWEEN ? AND ?",
			workerID, from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("check_in_date DESC").
		Find(&records).Error
	return records, err
}
