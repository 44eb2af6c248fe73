package handler

import "shiftpass/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	CheckIn  *CheckInHandler
	Token    *TokenHandler
	Location *LocationHandler
	Worker   *WorkerHandler
	Shift    *ShiftHandler
	Anomaly  *AnomalyHandler
	Export   *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		CheckIn:  NewCheckInHandler(svc.CheckIn),
		Token:    NewTokenHandler(svc.Token),
		Location: NewLocationHandler(svc.Location),
		Worker:   NewWorkerHandler(svc.Worker),
		Shift:    NewShiftHandler(svc.Shift),
		Anomaly:  NewAnomalyHandler(svc.Anomaly),
		Export:   NewExportHandler(svc.Export),
	}
}
