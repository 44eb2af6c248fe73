package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiftpass/backend/config"
	"shiftpass/backend/internal/dto"
	"shiftpass/backend/internal/model"
	"shiftpass/backend/internal/repository"
)

// ── 地点模块业务错误 ──

var (
	ErrLocationNotFound = errors.New("地点不存在")
)

// LocationService 地点档案业务接口（门店注册中心）
type LocationService interface {
	Create(ctx context.Context, req *dto.CreateLocationRequest, callerID string) (*dto.LocationResponse, error)
	GetByID(ctx context.Context, id string) (*dto.LocationResponse, error)
	List(ctx context.Context, req *dto.LocationListRequest) ([]dto.LocationResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateLocationRequest, callerID string) (*dto.LocationResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type locationService struct {
	cfg    *config.CheckInConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLocationService 创建 LocationService 实例
func NewLocationService(cfg *config.CheckInConfig, repo *repository.Repository, logger *zap.Logger) LocationService {
	return &locationService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *locationService) Create(ctx context.Context, req *dto.CreateLocationRequest, callerID string) (*dto.LocationResponse, error) {
	loc := &model.Location{
		Name:            req.Name,
		Address:         req.Address,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		AllowedRadiusM:  s.cfg.DefaultRadiusM,
		GeofenceEnabled: req.GeofenceEnabled,
		EarlyWindowMin:  int(s.cfg.DefaultEarlyWindow / time.Minute),
		IsActive:        true,
	}
	if req.AllowedRadiusM != nil {
		loc.AllowedRadiusM = *req.AllowedRadiusM
	}
	if req.EarlyWindowMin != nil {
		loc.EarlyWindowMin = *req.EarlyWindowMin
	}
	loc.CreatedBy = &callerID
	loc.UpdatedBy = &callerID

	if err := s.repo.Location.Create(ctx, loc); err != nil {
		s.logger.Error("创建地点失败", zap.Error(err))
		return nil, err
	}

	return s.toLocationResponse(loc), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *locationService) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	loc, err := s.repo.Location.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("查询地点失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toLocationResponse(loc), nil
}

// ────────────────────── List ──────────────────────

func (s *locationService) List(ctx context.Context, req *dto.LocationListRequest) ([]dto.LocationResponse, error) {
	locations, err := s.repo.Location.List(ctx, req.IncludeInactive)
	if err != nil {
		s.logger.Error("列出地点失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.LocationResponse, 0, len(locations))
	for i := range locations {
		result = append(result, *s.toLocationResponse(&locations[i]))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *locationService) Update(ctx context.Context, id string, req *dto.UpdateLocationRequest, callerID string) (*dto.LocationResponse, error) {
	loc, err := s.repo.Location.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("查询地点失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		loc.Name = *req.Name
	}
	if req.Address != nil {
		loc.Address = *req.Address
	}
	if req.Latitude != nil {
		loc.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		loc.Longitude = req.Longitude
	}
	if req.AllowedRadiusM != nil {
		loc.AllowedRadiusM = *req.AllowedRadiusM
	}
	if req.GeofenceEnabled != nil {
		loc.GeofenceEnabled = *req.GeofenceEnabled
	}
	if req.EarlyWindowMin != nil {
		loc.EarlyWindowMin = *req.EarlyWindowMin
	}
	if req.IsActive != nil {
		loc.IsActive = *req.IsActive
	}

	loc.UpdatedBy = &callerID

	if err := s.repo.Location.Update(ctx, loc); err != nil {
		s.logger.Error("更新地点失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toLocationResponse(loc), nil
}

// ────────────────────── Delete ──────────────────────

func (s *locationService) Delete(ctx context.Context, id string, callerID string) error {
	_, err := s.repo.Location.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLocationNotFound
		}
		s.logger.Error("查询地点失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Location.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除地点失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ── 内部辅助方法 ──

func (s *locationService) toLocationResponse(loc *model.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:              loc.LocationID,
		Name:            loc.Name,
		Address:         loc.Address,
		Latitude:        loc.Latitude,
		Longitude:       loc.Longitude,
		AllowedRadiusM:  loc.AllowedRadiusM,
		GeofenceEnabled: loc.GeofenceEnabled,
		EarlyWindowMin:  loc.EarlyWindowMin,
		IsActive:        loc.IsActive,
		CreatedAt:       loc.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:       loc.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
