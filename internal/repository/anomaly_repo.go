package repository

import (
	"context"

	"gorm.io/gorm"

	"shiftpass/backend/internal/model"
)

// AnomalyRepository 异常记录数据访问接口
type AnomalyRepository interface {
	Create(ctx context.Context, anomaly *model.Anomaly) error
	GetByID(ctx context.Context, id string) (*model.Anomaly, error)
	List(ctx context.Context, onlyUnresolved bool) ([]model.Anomaly, error)
	Resolve(ctx context.Context, id string, resolvedBy string) error
}

type anomalyRepo struct {
	db *gorm.DB
}

// NewAnomalyRepo 创建 AnomalyRepository 实例
func NewAnomalyRepo(db *gorm.DB) AnomalyRepository {
	return &anomalyRepo{db: db}
}

func (r *anomalyRepo) Create(ctx context.Context, anomaly *model.Anomaly) error {
	return r.db.WithContext(ctx).Create(anomaly).Error
}

func (r *anomalyRepo) GetByID(ctx context.Context, id string) (*model.Anomaly, error) {
	var anomaly model.Anomaly
	err := r.db.WithContext(ctx).
		Where("anomaly_id = ?", id).
		First(&anomaly).Error
	if err != nil {
		return nil, err
	}
	return &anomaly, nil
}

func (r *anomalyRepo) List(ctx context.Context, onlyUnresolved bool) ([]model.Anomaly, error) {
	var anomalies []model.Anomaly
	db := r.db.WithContext(ctx).Preload("CheckIn")
	if onlyUnresolved {
		db = db.Where("resolved = ?", false)
	}
	err := db.Order("created_at DESC").Find(&anomalies).Error
	return anomalies, err
}

func (r *anomalyRepo) Resolve(ctx context.Context, id string, resolvedBy string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Anomaly{}).
		Where("anomaly_id = ? AND resolved = ?", id, false).
		Updates(map[string]interface{}{
			"resolved":    true,
			"resolved_by": resolvedBy,
			"resolved_at": gorm.Expr("NOW()"),
			"updated_at":  gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
