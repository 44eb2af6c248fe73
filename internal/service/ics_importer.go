package service

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"shiftpass/backend/internal/model"
)

// ── ICS 排班导入器 ──────────────────────────────────────────
//
// 职责：将标准 iCalendar (RFC 5545) 内容解析为指定员工的 Shift 列表。
//
// 设计决策：
//   - DTSTART 确定排班日期与上班时间，DTEND 确定下班时间
//   - 无 DTEND 的事件按 2 小时默认时长处理
//   - 缺少时间信息的事件跳过并计数，不中断整体导入
//   - 同一天多个事件以最后一个为准（由 upsert 覆盖语义保证）
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize  = 5 * 1024 * 1024 // 5MB
	icsFetchTimeout = 30 * time.Second
)

// FetchICSContent 从 URL 获取 ICS 内容
func FetchICSContent(rawURL string) (io.ReadCloser, error) {
	// webcal:// → https://
	u := rawURL
	if strings.HasPrefix(u, "webcal://") {
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	}

	client := &http.Client{Timeout: icsFetchTimeout}
	resp, err := client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("获取 ICS 失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("获取 ICS 失败: HTTP %d", resp.StatusCode)
	}
	// 限制响应体大小，防止恶意 URL 返回超大内容导致 OOM
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, icsMaxFileSize),
		Closer: resp.Body,
	}, nil
}

// ParseShiftsICS 解析 ICS 内容并转为指定员工的 Shift 列表
//
// 返回值：解析出的排班、跳过的事件数、错误。
// 仅 ICS 格式整体不可解析时返回错误；单个事件异常只计入 skipped。
func ParseShiftsICS(reader io.Reader, workerID string, loc *time.Location) ([]model.Shift, int, error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, 0, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	var shifts []model.Shift
	skipped := 0
	for _, evt := range cal.Events() {
		shift, ok := parseShiftEvent(evt, workerID, loc)
		if !ok {
			skipped++
			continue
		}
		shifts = append(shifts, shift)
	}
	return shifts, skipped, nil
}

// parseShiftEvent 解析单个 VEVENT 为排班
func parseShiftEvent(evt *ics.VEvent, workerID string, loc *time.Location) (model.Shift, bool) {
	dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return model.Shift{}, false
	}
	dtEnd, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc)
	if err != nil {
		// 无 DTEND 时简化处理：默认 2 小时班次
		dtEnd = dtStart.Add(2 * time.Hour)
	}
	if !dtEnd.After(dtStart) {
		return model.Shift{}, false
	}

	shiftDate := time.Date(dtStart.Year(), dtStart.Month(), dtStart.Day(), 0, 0, 0, 0, loc)
	return model.Shift{
		WorkerID:  workerID,
		ShiftDate: shiftDate,
		StartTime: dtStart,
		EndTime:   dtEnd,
		Source:    model.ShiftSourceICS,
	}, true
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	// 尝试多种 ICS 日期格式
	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}

	// 检查 TZID 参数
	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range formats {
		if t, err := time.Parse(layout, val); err == nil {
			if strings.HasSuffix(layout, "Z") {
				return t.In(loc), nil
			}
			if tzid != "" {
				if tzLoc, err := time.LoadLocation(tzid); err == nil {
					return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), nil
				}
			}
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}
