package service

import (
	"time"

	"shiftpass/backend/internal/model"
)

// ── 时效分类器 ──
//
// 边界约定：
//   - 恰好在 scheduledStart 签到 → normal（迟到用严格 >）
//   - 恰好在提前窗口边界签到 → normal（早到用严格 <）

// ScheduleClassifier 签到时效分类器（无状态，可跨请求共享）
type ScheduleClassifier struct {
	defaultEarlyWindow time.Duration
}

// NewScheduleClassifier 创建分类器，defaultEarlyWindow 用于地点未配置提前窗口的兜底
func NewScheduleClassifier(defaultEarlyWindow time.Duration) *ScheduleClassifier {
	return &ScheduleClassifier{defaultEarlyWindow: defaultEarlyWindow}
}

// Classify 根据排班与签到时间判定时效分类
// shift 为 nil 表示当日无排班 → unscheduled
func (c *ScheduleClassifier) Classify(shift *model.Shift, eventTime time.Time, earlyWindow time.Duration) string {
	if shift == nil {
		return model.TimelinessUnscheduled
	}

	if earlyWindow <= 0 {
		earlyWindow = c.defaultEarlyWindow
	}

	switch {
	case eventTime.After(shift.StartTime):
		return model.TimelinessLate
	case eventTime.Before(shift.StartTime.Add(-earlyWindow)):
		return model.TimelinessEarly
	default:
		return model.TimelinessNormal
	}
}
