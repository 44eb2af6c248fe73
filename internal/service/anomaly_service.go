package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiftpass/backend/internal/dto"
	"shiftpass/backend/internal/model"
	"shiftpass/backend/internal/repository"
)

// ── 异常复核模块业务错误 ──

var (
	ErrAnomalyNotFound = errors.New("异常记录不存在或已处理")
)

// AnomalyService 签到异常复核业务接口
type AnomalyService interface {
	List(ctx context.Context, req *dto.AnomalyListRequest) ([]dto.AnomalyResponse, error)
	// Resolve 标记异常已复核；重复复核视为不存在
	Resolve(ctx context.Context, id string, resolvedBy string) error
}

type anomalyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAnomalyService 创建 AnomalyService 实例
func NewAnomalyService(repo *repository.Repository, logger *zap.Logger) AnomalyService {
	return &anomalyService{repo: repo, logger: logger}
}

func (s *anomalyService) List(ctx context.Context, req *dto.AnomalyListRequest) ([]dto.AnomalyResponse, error) {
	anomalies, err := s.repo.Anomaly.List(ctx, req.OnlyUnresolved)
	if err != nil {
		return nil, err
	}
	result := make([]dto.AnomalyResponse, 0, len(anomalies))
	for i := range anomalies {
		result = append(result, *toAnomalyResponse(&anomalies[i]))
	}
	return result, nil
}

func (s *anomalyService) Resolve(ctx context.Context, id string, resolvedBy string) error {
	err := s.repo.Anomaly.Resolve(ctx, id, resolvedBy)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnomalyNotFound
		}
		s.logger.Error("复核异常失败", zap.Error(err), zap.String("anomaly_id", id))
		return err
	}
	s.logger.Info("异常已复核", zap.String("anomaly_id", id), zap.String("resolved_by", resolvedBy))
	return nil
}

func toAnomalyResponse(a *model.Anomaly) *dto.AnomalyResponse {
	return &dto.AnomalyResponse{
		AnomalyID:   a.AnomalyID,
		CheckInID:   a.CheckInID,
		AnomalyType: a.AnomalyType,
		Severity:    a.Severity,
		Details:     a.Details,
		Resolved:    a.Resolved,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
}
