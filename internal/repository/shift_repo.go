package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shiftpass/backend/internal/model"
)

// ShiftRepository 排班数据访问接口
// 排班由套件的排班模块或 ICS 导入写入，对签到引擎只读
type ShiftRepository interface {
	Upsert(ctx context.Context, shift *model.Shift) error
	UpsertBatch(ctx context.Context, shifts []model.Shift) error
	// GetForDate 查询员工某业务日的排班；无排班时返回 gorm.ErrRecordNotFound
	GetForDate(ctx context.Context, workerID string, date time.Time) (*model.Shift, error)
	ListByWorker(ctx context.Context, workerID string, from, to time.Time) ([]model.Shift, error)
}

type shiftRepo struct {
	db *gorm.DB
}

// NewShiftRepo 创建 ShiftRepository 实例
func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

// upsert 冲突键为 (worker_id, shift_date)：同一天重复导入覆盖时间段
var shiftConflict = clause.OnConflict{
	Columns:   []clause.Column{{Name: "worker_id"}, {Name: "shift_date"}},
	DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "source", "updated_at"}),
}

func (r *shiftRepo) Upsert(ctx context.Context, shift *model.Shift) error {
	return r.db.WithContext(ctx).Clauses(shiftConflict).Create(shift).Error
}

func (r *shiftRepo) UpsertBatch(ctx context.Context, shifts []model.Shift) error {
	if len(shifts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(shiftConflict).CreateInBatches(shifts, 100).Error
}

func (r *shiftRepo) GetForDate(ctx context.Context, workerID string, date time.Time) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND shift_date = ?", workerID, date.Format("2006-01-02")).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) ListByWorker(ctx context.Context, workerID string, from, to time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND shift_date BETWEEN ? AND ?",
			workerID, from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("shift_date ASC").
		Find(&shifts).Error
	return shifts, err
}
