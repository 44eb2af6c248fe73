package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"shiftpass/backend/internal/dto"
	"shiftpass/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestExportService() (ExportService, *mockRepos) {
	mocks, repo := newMockRepository()
	tz, _ := time.LoadLocation("Asia/Shanghai")
	svc := NewExportService(repo, tz, zap.NewNop())
	return svc, mocks
}

func seedCheckInRecord(mocks *mockRepos, workerID, locationID string, day time.Time) {
	key := workerID + "|" + day.Format("2006-01-02")
	mocks.checkIn.records[key] = &model.CheckInRecord{
		CheckInID:        "ci-" + key,
		WorkerID:         workerID,
		CheckInDate:      day,
		CheckInTime:      day.Add(9 * time.Hour),
		Method:           model.CheckInMethodToken,
		LocationID:       &locationID,
		TimelinessStatus: model.TimelinessNormal,
		Worker:           &model.Worker{WorkerID: workerID, Name: "王小明"},
	}
}

// ── ExportCheckIns 测试 ──

func TestExportService_ExportCheckIns_Success(t *testing.T) {
	svc, mocks := setupTestExportService()
	seedLocation(mocks, "loc-001")
	tz, _ := time.LoadLocation("Asia/Shanghai")
	seedCheckInRecord(mocks, "w-001", "loc-001", time.Date(2026, 3, 2, 0, 0, 0, 0, tz))
	seedCheckInRecord(mocks, "w-002", "loc-001", time.Date(2026, 3, 3, 0, 0, 0, 0, tz))

	buf, filename, err := svc.ExportCheckIns(context.Background(), &dto.ExportCheckInsRequest{
		LocationID: "loc-001",
		Month:      "2026-03",
	})
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	if filename == "" {
		t.Error("应返回建议文件名")
	}

	// 产物应是可读的 xlsx，且含 2 条数据行
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容应为合法 xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("签到记录")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	// 标题 + 表头 + 2 条数据
	if len(rows) != 4 {
		t.Errorf("期望 4 行，实际 %d", len(rows))
	}
}

func TestExportService_ExportCheckIns_NoRecords(t *testing.T) {
	svc, mocks := setupTestExportService()
	seedLocation(mocks, "loc-001")

	_, _, err := svc.ExportCheckIns(context.Background(), &dto.ExportCheckInsRequest{
		LocationID: "loc-001",
		Month:      "2026-03",
	})
	if !errors.Is(err, ErrExportNoRecords) {
		t.Errorf("无记录应返回 ErrExportNoRecords，实际 %v", err)
	}
}

func TestExportService_ExportCheckIns_LocationNotFound(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportCheckIns(context.Background(), &dto.ExportCheckInsRequest{
		LocationID: "loc-missing",
		Month:      "2026-03",
	})
	if !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("期望 ErrLocationNotFound，实际 %v", err)
	}
}
