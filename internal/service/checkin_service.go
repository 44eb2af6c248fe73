package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiftpass/backend/internal/dto"
	"shiftpass/backend/internal/model"
	"shiftpass/backend/internal/repository"
)

// ── 签到模块业务错误 ──

var (
	ErrCheckInValidation  = errors.New("workerId 必填，且 token 与坐标至少提供其一")
	ErrDuplicateCheckIn   = errors.New("当日已签到")
	ErrNoAssignedLocation = errors.New("员工未分配签到地点")
	ErrWorkerNotFound     = errors.New("员工不存在")
	ErrCheckInNotFound    = errors.New("签到记录不存在")
)

// CheckInService 签到协调器业务接口
//
// Record 按固定序列处理一次签到事件：
// 校验 → 解析目标地点（Token 验证或归属地点）→ 围栏评估 →
// 排班时效分类 → 幂等写入 → 围栏越界时落异常并广播。
// (worker_id, 业务日) 唯一约束是幂等的判定机制：
// 约束冲突就是"重复签到"结论本身，不是需要规避的竞态
type CheckInService interface {
	Record(ctx context.Context, workerID string, req *dto.RecordCheckInRequest) (*dto.CheckInResponse, error)
	GetToday(ctx context.Context, workerID string) (*dto.CheckInResponse, error)
	ListByLocation(ctx context.Context, req *dto.CheckInListRequest) ([]dto.CheckInResponse, error)
}

type checkInService struct {
	repo       *repository.Repository
	tokenSvc   TokenService
	geofence   *GeofenceEvaluator
	classifier *ScheduleClassifier
	notifier   AnomalyNotifier
	tz         *time.Location
	logger     *zap.Logger
}

// NewCheckInService 创建 CheckInService 实例
// tz 为业务日切分时区；所有依赖显式注入，无包级全局状态
func NewCheckInService(
	repo *repository.Repository,
	tokenSvc TokenService,
	geofence *GeofenceEvaluator,
	classifier *ScheduleClassifier,
	notifier AnomalyNotifier,
	tz *time.Location,
	logger *zap.Logger,
) CheckInService {
	return &checkInService{
		repo:       repo,
		tokenSvc:   tokenSvc,
		geofence:   geofence,
		classifier: classifier,
		notifier:   notifier,
		tz:         tz,
		logger:     logger,
	}
}

// ────────────────────── Record ──────────────────────

func (s *checkInService) Record(ctx context.Context, workerID string, req *dto.RecordCheckInRequest) (*dto.CheckInResponse, error) {
	// 1. 入参校验：workerID 必填，token 与坐标至少其一
	if workerID == "" || (req.Token == "" && req.Coordinate == nil) {
		return nil, ErrCheckInValidation
	}

	worker, err := s.repo.Worker.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		s.logger.Error("查询员工失败", zap.String("worker_id", workerID), zap.Error(err))
		return nil, err
	}

	// 2. 解析目标地点：Token 优先，否则回落到归属地点
	var locationID string
	var method string
	if req.Token != "" {
		locationID, err = s.tokenSvc.Verify(ctx, req.Token)
		if err != nil {
			// Token 验证错误原样上抛，由 Handler 映射为认证错误及子原因
			return nil, err
		}
		method = model.CheckInMethodToken
	} else {
		if worker.AssignedLocationID == nil {
			return nil, ErrNoAssignedLocation
		}
		locationID = *worker.AssignedLocationID
		method = model.CheckInMethodGeo
	}

	// 3. 地点档案
	loc, err := s.repo.Location.GetByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("查询地点失败", zap.String("location_id", locationID), zap.Error(err))
		return nil, err
	}

	// 4. 围栏评估（坐标缺失或围栏未启用时为跳过）
	geoResult := s.geofence.Evaluate(loc, req.Coordinate)

	// 5. 当日排班（缺班不是错误 → unscheduled）
	now := time.Now().In(s.tz)
	var shift *model.Shift
	shift, err = s.repo.Shift.GetForDate(ctx, workerID, now)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询排班失败", zap.String("worker_id", workerID), zap.Error(err))
			return nil, err
		}
		shift = nil
	}

	// 6. 时效分类
	earlyWindow := time.Duration(loc.EarlyWindowMin) * time.Minute
	timeliness := s.classifier.Classify(shift, now, earlyWindow)

	// 7. 幂等写入：唯一约束冲突即"重复签到"终态
	record := &model.CheckInRecord{
		WorkerID:         workerID,
		CheckInDate:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.tz),
		CheckInTime:      now,
		Method:           method,
		LocationID:       &loc.LocationID,
		TimelinessStatus: timeliness,
	}
	if req.Coordinate != nil {
		record.Latitude = &req.Coordinate.Latitude
		record.Longitude = &req.Coordinate.Longitude
	}
	record.DistanceM = geoResult.DistanceM
	if req.DeviceInfo != "" {
		record.DeviceInfo = &req.DeviceInfo
	}
	if req.PhotoURL != "" {
		record.PhotoURL = &req.PhotoURL
	}

	if err := s.repo.CheckIn.Create(ctx, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateCheckIn
		}
		s.logger.Error("写入签到记录失败", zap.String("worker_id", workerID), zap.Error(err))
		return nil, err
	}

	// 8. 围栏越界：软失败，写入成功后补异常记录并广播
	var anomaly *model.Anomaly
	if !geoResult.WithinRadius {
		anomaly = s.recordGeofenceAnomaly(ctx, record, geoResult)
	}

	s.logger.Info("签到成功",
		zap.String("worker_id", workerID),
		zap.String("method", method),
		zap.String("timeliness", timeliness),
		zap.Bool("geofence_violation", anomaly != nil),
	)

	return s.toCheckInResponse(record, anomaly), nil
}

// recordGeofenceAnomaly 写入围栏越界异常并 fire-and-forget 广播
// 任何失败只记日志，不影响已成功的签到
func (s *checkInService) recordGeofenceAnomaly(ctx context.Context, record *model.CheckInRecord, geoResult GeofenceResult) *model.Anomaly {
	details := ""
	if geoResult.DistanceM != nil {
		details = fmt.Sprintf("distance_m=%.1f", *geoResult.DistanceM)
	}

	anomaly := &model.Anomaly{
		CheckInID:   record.CheckInID,
		AnomalyType: model.AnomalyTypeOutsideGeofence,
		Severity:    model.AnomalySeverityMedium,
		Details:     details,
	}
	if err := s.repo.Anomaly.Create(ctx, anomaly); err != nil {
		s.logger.Error("写入异常记录失败", zap.String("check_in_id", record.CheckInID), zap.Error(err))
		return nil
	}

	if err := s.notifier.Notify(ctx, anomaly); err != nil {
		s.logger.Warn("异常通知发送失败", zap.String("anomaly_id", anomaly.AnomalyID), zap.Error(err))
	}

	return anomaly
}

// ────────────────────── GetToday ──────────────────────

func (s *checkInService) GetToday(ctx context.Context, workerID string) (*dto.CheckInResponse, error) {
	record, err := s.repo.CheckIn.GetByWorkerAndDate(ctx, workerID, time.Now().In(s.tz))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckInNotFound
		}
		s.logger.Error("查询当日签到失败", zap.String("worker_id", workerID), zap.Error(err))
		return nil, err
	}
	return s.toCheckInResponse(record, nil), nil
}

// ────────────────────── ListByLocation ──────────────────────

func (s *checkInService) ListByLocation(ctx context.Context, req *dto.CheckInListRequest) ([]dto.CheckInResponse, error) {
	from, err := time.ParseInLocation("2006-01-02", req.From, s.tz)
	if err != nil {
		return nil, ErrCheckInValidation
	}
	to, err := time.ParseInLocation("2006-01-02", req.To, s.tz)
	if err != nil {
		return nil, ErrCheckInValidation
	}

	records, err := s.repo.CheckIn.ListByLocation(ctx, req.LocationID, from, to)
	if err != nil {
		s.logger.Error("查询签到记录失败", zap.String("location_id", req.LocationID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.CheckInResponse, 0, len(records))
	for i := range records {
		result = append(result, *s.toCheckInResponse(&records[i], nil))
	}
	return result, nil
}

// ── 内部辅助方法 ──

func (s *checkInService) toCheckInResponse(record *model.CheckInRecord, anomaly *model.Anomaly) *dto.CheckInResponse {
	resp := &dto.CheckInResponse{
		ID:               record.CheckInID,
		WorkerID:         record.WorkerID,
		CheckInTime:      record.CheckInTime.Format(time.RFC3339),
		Method:           record.Method,
		TimelinessStatus: record.TimelinessStatus,
		DistanceM:        record.DistanceM,
	}
	if record.LocationID != nil {
		resp.LocationID = *record.LocationID
	}
	if anomaly != nil {
		resp.Anomaly = &dto.AnomalyResponse{
			AnomalyID:   anomaly.AnomalyID,
			CheckInID:   anomaly.CheckInID,
			AnomalyType: anomaly.AnomalyType,
			Severity:    anomaly.Severity,
			Details:     anomaly.Details,
			Resolved:    anomaly.Resolved,
			CreatedAt:   anomaly.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp
}
