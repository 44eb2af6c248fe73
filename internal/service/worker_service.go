package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiftpass/backend/internal/dto"
	"shiftpass/backend/internal/model"
	"shiftpass/backend/internal/repository"
)

// WorkerService 员工目录业务接口
// 员工主数据由套件维护，本服务只管理签到相关的归属地点
type WorkerService interface {
	GetByID(ctx context.Context, id string) (*dto.WorkerResponse, error)
	List(ctx context.Context, locationID string) ([]dto.WorkerResponse, error)
	// AssignLocation 设置员工归属地点；locationID 为 nil 时解除归属
	AssignLocation(ctx context.Context, workerID string, locationID *string, callerID string) error
}

type workerService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewWorkerService 创建 WorkerService 实例
func NewWorkerService(repo *repository.Repository, logger *zap.Logger) WorkerService {
	return &workerService{repo: repo, logger: logger}
}

func (s *workerService) GetByID(ctx context.Context, id string) (*dto.WorkerResponse, error) {
	worker, err := s.repo.Worker.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}
	return toWorkerResponse(worker), nil
}

func (s *workerService) List(ctx context.Context, locationID string) ([]dto.WorkerResponse, error) {
	workers, err := s.repo.Worker.List(ctx, locationID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.WorkerResponse, 0, len(workers))
	for i := range workers {
		result = append(result, *toWorkerResponse(&workers[i]))
	}
	return result, nil
}

func (s *workerService) AssignLocation(ctx context.Context, workerID string, locationID *string, callerID string) error {
	if _, err := s.repo.Worker.GetByID(ctx, workerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkerNotFound
		}
		return err
	}
	if locationID != nil {
		if _, err := s.repo.Location.GetByID(ctx, *locationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLocationNotFound
			}
			return err
		}
	}

	if err := s.repo.Worker.AssignLocation(ctx, workerID, locationID, callerID); err != nil {
		s.logger.Error("设置员工归属地点失败", zap.Error(err), zap.String("worker_id", workerID))
		return err
	}
	return nil
}

func toWorkerResponse(w *model.Worker) *dto.WorkerResponse {
	return &dto.WorkerResponse{
		WorkerID:           w.WorkerID,
		Name:               w.Name,
		AssignedLocationID: w.AssignedLocationID,
		IsActive:           w.IsActive,
	}
}
