package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiftpass/backend/internal/dto"
	"shiftpass/backend/internal/model"
	"shiftpass/backend/internal/repository"
)

// ── 排班模块业务错误 ──

var (
	ErrShiftValidation = errors.New("排班参数不合法")
	ErrICSSourceEmpty  = errors.New("url 与 content 必须提供其一")
)

// ShiftService 排班业务接口
// 排班是签到引擎的守时判定依据，本服务只负责录入与查询
type ShiftService interface {
	Upsert(ctx context.Context, req *dto.UpsertShiftRequest) (*dto.ShiftResponse, error)
	// ImportICS 从 ICS 日历批量导入某员工的排班，同日重复导入覆盖
	ImportICS(ctx context.Context, req *dto.ImportShiftsICSRequest) (*dto.ImportShiftsICSResponse, error)
	ListByWorker(ctx context.Context, workerID string, req *dto.ShiftListRequest) ([]dto.ShiftResponse, error)
}

type shiftService struct {
	repo   *repository.Repository
	tz     *time.Location
	logger *zap.Logger
}

// NewShiftService 创建 ShiftService 实例
func NewShiftService(repo *repository.Repository, tz *time.Location, logger *zap.Logger) ShiftService {
	return &shiftService{repo: repo, tz: tz, logger: logger}
}

// ────────────────────── Upsert ──────────────────────

func (s *shiftService) Upsert(ctx context.Context, req *dto.UpsertShiftRequest) (*dto.ShiftResponse, error) {
	if _, err := s.repo.Worker.GetByID(ctx, req.WorkerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}

	shiftDate, err := time.ParseInLocation("2006-01-02", req.ShiftDate, s.tz)
	if err != nil {
		return nil, ErrShiftValidation
	}
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, ErrShiftValidation
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, ErrShiftValidation
	}
	if !endTime.After(startTime) {
		return nil, ErrShiftValidation
	}

	shift := &model.Shift{
		WorkerID:  req.WorkerID,
		ShiftDate: shiftDate,
		StartTime: startTime,
		EndTime:   endTime,
		Source:    model.ShiftSourceManual,
	}
	if err := s.repo.Shift.Upsert(ctx, shift); err != nil {
		s.logger.Error("保存排班失败", zap.Error(err), zap.String("worker_id", req.WorkerID))
		return nil, err
	}

	return s.toShiftResponse(shift), nil
}

// ────────────────────── ImportICS ──────────────────────

func (s *shiftService) ImportICS(ctx context.Context, req *dto.ImportShiftsICSRequest) (*dto.ImportShiftsICSResponse, error) {
	if _, err := s.repo.Worker.GetByID(ctx, req.WorkerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}

	shifts, skipped, err := s.loadShifts(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Shift.UpsertBatch(ctx, shifts); err != nil {
		s.logger.Error("批量保存排班失败", zap.Error(err), zap.String("worker_id", req.WorkerID))
		return nil, err
	}

	s.logger.Info("ICS 排班导入完成",
		zap.String("worker_id", req.WorkerID),
		zap.Int("imported", len(shifts)),
		zap.Int("skipped", skipped))
	return &dto.ImportShiftsICSResponse{Imported: len(shifts), Skipped: skipped}, nil
}

// loadShifts 按 url / content 二选一获取并解析 ICS
func (s *shiftService) loadShifts(req *dto.ImportShiftsICSRequest) ([]model.Shift, int, error) {
	switch {
	case req.Content != "":
		return ParseShiftsICS(strings.NewReader(req.Content), req.WorkerID, s.tz)
	case req.URL != "":
		body, err := FetchICSContent(req.URL)
		if err != nil {
			return nil, 0, err
		}
		defer body.Close()
		return ParseShiftsICS(body, req.WorkerID, s.tz)
	default:
		return nil, 0, ErrICSSourceEmpty
	}
}

// ────────────────────── ListByWorker ──────────────────────

func (s *shiftService) ListByWorker(ctx context.Context, workerID string, req *dto.ShiftListRequest) ([]dto.ShiftResponse, error) {
	from, err := time.ParseInLocation("2006-01-02", req.From, s.tz)
	if err != nil {
		return nil, ErrShiftValidation
	}
	to, err := time.ParseInLocation("2006-01-02", req.To, s.tz)
	if err != nil {
		return nil, ErrShiftValidation
	}
	if to.Before(from) {
		return nil, ErrShiftValidation
	}

	shifts, err := s.repo.Shift.ListByWorker(ctx, workerID, from, to)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		result = append(result, *s.toShiftResponse(&shifts[i]))
	}
	return result, nil
}

func (s *shiftService) toShiftResponse(shift *model.Shift) *dto.ShiftResponse {
	return &dto.ShiftResponse{
		ShiftID:   shift.ShiftID,
		WorkerID:  shift.WorkerID,
		ShiftDate: shift.ShiftDate.Format("2006-01-02"),
		StartTime: shift.StartTime.Format(time.RFC3339),
		EndTime:   shift.EndTime.Format(time.RFC3339),
		Source:    shift.Source,
	}
}
