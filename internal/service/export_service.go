package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiftpass/backend/internal/dto"
	"shiftpass/backend/internal/model"
	"shiftpass/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRecords    = errors.New("该地点当月无签到记录")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 按地点 + 月份导出签到明细为 Excel (.xlsx)
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportCheckIns 导出某地点某月的签到记录为 Excel
	ExportCheckIns(ctx context.Context, req *dto.ExportCheckInsRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	tz     *time.Location
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, tz *time.Location, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, tz: tz, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportCheckIns — 导出签到明细为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "签到记录"
//   - 标题行：地点名 + 月份
//   - 列：日期 | 姓名 | 签到时间 | 方式 | 守时状态 | 距离(米)
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportCheckIns(ctx context.Context, req *dto.ExportCheckInsRequest) (*bytes.Buffer, string, error) {
	// 1. 查询地点
	loc, err := s.repo.Location.GetByID(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrLocationNotFound
		}
		s.logger.Error("查询地点失败", zap.Error(err))
		return nil, "", err
	}

	// 2. 解析月份 → 日期区间 [月初, 下月初)
	monthStart, err := time.ParseInLocation("2006-01", req.Month, s.tz)
	if err != nil {
		return nil, "", ErrCheckInValidation
	}
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-24 * time.Hour)

	// 3. 查询签到记录（含员工信息）
	records, err := s.repo.CheckIn.ListByLocation(ctx, req.LocationID, monthStart, monthEnd)
	if err != nil {
		s.logger.Error("查询签到记录失败", zap.Error(err))
		return nil, "", err
	}
	if len(records) == 0 {
		return nil, "", ErrExportNoRecords
	}

	// 4. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "签到记录"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	// 设置列宽
	widths := []float64{12, 14, 20, 8, 10, 10}
	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, w)
	}

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — %s 签到记录", loc.Name, req.Month))
	f.MergeCell(sheetName, "A1", cell(colName(len(widths)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"日期", "姓名", "签到时间", "方式", "守时状态", "距离(米)"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}

	// 数据行
	row := 3
	for i := range records {
		rec := &records[i]
		workerName := rec.WorkerID
		if rec.Worker != nil {
			workerName = rec.Worker.Name
		}
		f.SetCellValue(sheetName, cell("A", row), rec.CheckInDate.Format("2006-01-02"))
		f.SetCellValue(sheetName, cell("B", row), workerName)
		f.SetCellValue(sheetName, cell("C", row), rec.CheckInTime.In(s.tz).Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheetName, cell("D", row), methodLabel(rec.Method))
		f.SetCellValue(sheetName, cell("E", row), timelinessLabel(rec.TimelinessStatus))
		if rec.DistanceM != nil {
			f.SetCellValue(sheetName, cell("F", row), fmt.Sprintf("%.1f", *rec.DistanceM))
		} else {
			f.SetCellValue(sheetName, cell("F", row), "-")
		}
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("签到记录_%s_%s.xlsx", loc.Name, req.Month)
	return buf, filename, nil
}

// ── 辅助函数 ──

func methodLabel(method string) string {
	switch method {
	case model.CheckInMethodToken:
		return "扫码"
	case model.CheckInMethodGeo:
		return "定位"
	case model.CheckInMethodManual:
		return "手动"
	default:
		return method
	}
}

func timelinessLabel(status string) string {
	switch status {
	case model.TimelinessNormal:
		return "正常"
	case model.TimelinessLate:
		return "迟到"
	case model.TimelinessEarly:
		return "早到"
	case model.TimelinessUnscheduled:
		return "无排班"
	default:
		return status
	}
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
