package service

import (
	"time"

	"go.uber.org/zap"

	"shiftpass/backend/config"
	"shiftpass/backend/internal/repository"
	"shiftpass/backend/pkg/redis"
	"shiftpass/backend/pkg/token"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Token    TokenService
	CheckIn  CheckInService
	Location LocationService
	Worker   WorkerService
	Shift    ShiftService
	Anomaly  AnomalyService
	Export   ExportService
}

// NewService 创建 Service 聚合
// rdb 允许为 nil：异常通知降级为仅记录日志
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	codec *token.Codec,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	// 业务日切分时区；配置 Validate 已保证可加载
	tz, err := time.LoadLocation(cfg.CheckIn.Timezone)
	if err != nil {
		tz = time.UTC
	}

	tokenSvc := NewTokenService(&cfg.CheckIn, repo, codec, logger)
	geofence := NewGeofenceEvaluator(cfg.CheckIn.DefaultRadiusM)
	classifier := NewScheduleClassifier(cfg.CheckIn.DefaultEarlyWindow)
	notifier := NewRedisNotifier(rdb, logger)

	return &Service{
		Token:    tokenSvc,
		CheckIn:  NewCheckInService(repo, tokenSvc, geofence, classifier, notifier, tz, logger),
		Location: NewLocationService(&cfg.CheckIn, repo, logger),
		Worker:   NewWorkerService(repo, logger),
		Shift:    NewShiftService(repo, tz, logger),
		Anomaly:  NewAnomalyService(repo, logger),
		Export:   NewExportService(repo, tz, logger),
	}
}
