package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"shiftpass/backend/internal/model"
	"shiftpass/backend/pkg/redis"
)

// AnomalyNotifier 异常通知接口（fire-and-forget）
// 通知失败不得影响签到结果，由调用方吞掉错误并记日志
type AnomalyNotifier interface {
	Notify(ctx context.Context, anomaly *model.Anomaly) error
}

// anomalyChannel 异常事件广播频道，由套件的告警/审批服务订阅
const anomalyChannel = "shiftpass:anomalies"

type redisNotifier struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewRedisNotifier 创建基于 Redis Pub/Sub 的异常通知器
// rdb 为 nil 时降级为仅记日志（与限流中间件的降级策略一致）
func NewRedisNotifier(rdb *redis.Client, logger *zap.Logger) AnomalyNotifier {
	return &redisNotifier{rdb: rdb, logger: logger}
}

func (n *redisNotifier) Notify(ctx context.Context, anomaly *model.Anomaly) error {
	payload, err := json.Marshal(anomaly)
	if err != nil {
		return err
	}

	if n.rdb == nil {
		n.logger.Info("异常事件（Redis 不可用，仅记录）",
			zap.String("anomaly_id", anomaly.AnomalyID),
			zap.String("type", anomaly.AnomalyType),
		)
		return nil
	}

	return n.rdb.Publish(ctx, anomalyChannel, payload)
}
