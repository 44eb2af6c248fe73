package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"shiftpass/backend/internal/dto"
	"shiftpass/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestAnomalyService() (AnomalyService, *mockRepos) {
	mocks, repo := newMockRepository()
	svc := NewAnomalyService(repo, zap.NewNop())
	return svc, mocks
}

func seedAnomaly(mocks *mockRepos, id string, resolved bool) {
	mocks.anomaly.anomalies[id] = &model.Anomaly{
		AnomalyID:   id,
		CheckInID:   "ci-001",
		AnomalyType: model.AnomalyTypeOutsideGeofence,
		Severity:    model.AnomalySeverityMedium,
		Resolved:    resolved,
	}
}

// ── List 测试 ──

func TestAnomalyService_List_OnlyUnresolved(t *testing.T) {
	svc, mocks := setupTestAnomalyService()
	seedAnomaly(mocks, "anom-001", false)
	seedAnomaly(mocks, "anom-002", true)

	unresolved, err := svc.List(context.Background(), &dto.AnomalyListRequest{OnlyUnresolved: true})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(unresolved) != 1 {
		t.Errorf("期望 1 条待复核异常，实际 %d", len(unresolved))
	}

	all, _ := svc.List(context.Background(), &dto.AnomalyListRequest{})
	if len(all) != 2 {
		t.Errorf("期望全部 2 条，实际 %d", len(all))
	}
}

// ── Resolve 测试 ──

func TestAnomalyService_Resolve_Success(t *testing.T) {
	svc, mocks := setupTestAnomalyService()
	seedAnomaly(mocks, "anom-001", false)

	if err := svc.Resolve(context.Background(), "anom-001", "mgr-001"); err != nil {
		t.Fatalf("Resolve 应成功: %v", err)
	}

	a := mocks.anomaly.anomalies["anom-001"]
	if !a.Resolved || a.ResolvedBy == nil || *a.ResolvedBy != "mgr-001" {
		t.Error("应记录复核人并标记已解决")
	}
}

func TestAnomalyService_Resolve_AlreadyResolved(t *testing.T) {
	svc, mocks := setupTestAnomalyService()
	seedAnomaly(mocks, "anom-001", true)

	err := svc.Resolve(context.Background(), "anom-001", "mgr-001")
	if !errors.Is(err, ErrAnomalyNotFound) {
		t.Errorf("重复复核应返回 ErrAnomalyNotFound，实际 %v", err)
	}
}

func TestAnomalyService_Resolve_NotFound(t *testing.T) {
	svc, _ := setupTestAnomalyService()

	err := svc.Resolve(context.Background(), "anom-missing", "mgr-001")
	if !errors.Is(err, ErrAnomalyNotFound) {
		t.Errorf("期望 ErrAnomalyNotFound，实际 %v", err)
	}
}
