package repository

import (
	"context"

	"gorm.io/gorm"

	"shiftpass/backend/internal/model"
)

// WorkerRepository 员工目录数据访问接口
// 员工档案由套件的身份服务同步写入，本服务只读与分配归属地点
type WorkerRepository interface {
	GetByID(ctx context.Context, id string) (*model.Worker, error)
	AssignLocation(ctx context.Context, workerID string, locationID *string, updatedBy string) error
	List(ctx context.Context, locationID string) ([]model.Worker, error)
}

type workerRepo struct {
	db *gorm.DB
}

// NewWorkerRepo 创建 WorkerRepository 实例
func NewWorkerRepo(db *gorm.DB) WorkerRepository {
	return &workerRepo{db: db}
}

func (r *workerRepo) GetByID(ctx context.Context, id string) (*model.Worker, error) {
	var worker model.Worker
	err := r.db.WithContext(ctx).
		Where("worker_id = ?", id).
		First(&worker).Error
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *workerRepo) AssignLocation(ctx context.Context, workerID string, locationID *string, updatedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Worker{}).
		Where("worker_id = ?", workerID).
		Updates(map[string]interface{}{
			"assigned_location_id": locationID,
			"updated_by":           updatedBy,
			"updated_at":           gorm.Expr("NOW()"),
		}).Error
}

func (r *workerRepo) List(ctx context.Context, locationID string) ([]model.Worker, error) {
	var workers []model.Worker
	db := r.db.WithContext(ctx).Where("is_active = ?", true)
	if locationID != "" {
		db = db.Where("assigned_location_id = ?", locationID)
	}
	err := db.Order("name ASC").Find(&workers).Error
	return workers, err
}
