package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/model"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRequests   = errors.New("暂无可导出的申请")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
	ErrExportRangeInvalid = errors.New("导出日期范围无效")
)

const manilaTimezone = "Asia/Manila"

// ExportService 导出业务接口
//
// 设计说明：
//   - 申请总表导出为 Excel (.xlsx)，管理员查账用
//   - 已批准/已分派的申请与管理员日历占用一并导出为 iCalendar (.ics)，
//     可订阅到外部日历
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportRequestsXLSX 导出申请总表为 Excel
	ExportRequestsXLSX(ctx context.Context) (*bytes.Buffer, string, error)
	// ExportCalendarICS 导出指定日期范围的日历为 ICS
	ExportCalendarICS(ctx context.Context, from, to string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportRequestsXLSX — 导出申请总表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "申请总表"
//   - 列：活动名称 | 日期 | 时间 | 地点 | 申请人 | 联系方式 | 状态 | 分派组长
//   - 按活动日期升序

var requestStatusLabels = map[string]string{
	model.RequestStatusPending:  "待审批",
	model.RequestStatusApproved: "已批准",
	model.RequestStatusDenied:   "已驳回",
	model.RequestStatusAssigned: "已分派",
}

func (s *exportService) ExportRequestsXLSX(ctx context.Context) (*bytes.Buffer, string, error) {
	requests, err := s.repo.Request.ListByStatuses(ctx, []string{
		model.RequestStatusPending,
		model.RequestStatusApproved,
		model.RequestStatusDenied,
		model.RequestStatusAssigned,
	})
	if err != nil {
		s.logger.Error("查询申请列表失败", zap.Error(err))
		return nil, "", err
	}
	if len(requests) == 0 {
		return nil, "", ErrExportNoRequests
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "申请总表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"活动名称", "日期", "时间", "地点", "申请人", "联系方式", "状态", "分派组长"}
	widths := []float64{24, 12, 14, 20, 14, 18, 10, 14}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	lastCol := colName(len(headers) - 1)
	f.SetCellStyle(sheetName, "A1", cell(lastCol, 1), headerStyle)

	row := 2
	for i := range requests {
		req := &requests[i]

		ownerName := req.ContactPerson
		if req.Owner != nil {
			ownerName = req.Owner.Name
		}
		headName := "-"
		if req.AssignedHead != nil {
			headName = req.AssignedHead.Name
		}
		label := requestStatusLabels[req.Status]
		if label == "" {
			label = req.Status
		}

		f.SetCellValue(sheetName, cell("A", row), req.EventTitle)
		f.SetCellValue(sheetName, cell("B", row), req.EventDate.Format("2006-01-02"))
		f.SetCellValue(sheetName, cell("C", row), fmt.Sprintf("%s-%s", normalizeTime(req.TimeFrom), normalizeTime(req.TimeTo)))
		f.SetCellValue(sheetName, cell("D", row), req.Location)
		f.SetCellValue(sheetName, cell("E", row), ownerName)
		f.SetCellValue(sheetName, cell("F", row), req.ContactInfo)
		f.SetCellValue(sheetName, cell("G", row), label)
		f.SetCellValue(sheetName, cell("H", row), headName)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("申请总表_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportCalendarICS — 导出日历为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 内容：
//   - 已批准/已分派申请各生成一个 VEVENT（UID = request_id）
//   - 管理员日历占用各生成一个 VEVENT（UID = event_id）
//   - 无起止时间的占用块按全天事件处理（08:00–18:00 占位）

func (s *exportService) ExportCalendarICS(ctx context.Context, from, to string) (*bytes.Buffer, string, error) {
	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, "", ErrExportRangeInvalid
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil || toDate.Before(fromDate) {
		return nil, "", ErrExportRangeInvalid
	}

	requests, err := s.repo.Request.ListByStatuses(ctx, []string{
		model.RequestStatusApproved,
		model.RequestStatusAssigned,
	})
	if err != nil {
		s.logger.Error("查询申请列表失败", zap.Error(err))
		return nil, "", err
	}

	adminEvents, err := s.repo.AdminEvent.ListByDateRange(ctx, fromDate, toDate)
	if err != nil {
		s.logger.Error("查询日历占用失败", zap.Error(err))
		return nil, "", err
	}

	loc, _ := time.LoadLocation(manilaTimezone)
	if loc == nil {
		loc = time.UTC
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Gold Panicles//Event Calendar//EN")

	now := time.Now().In(loc)

	for i := range requests {
		req := &requests[i]
		if req.EventDate.Before(fromDate) || req.EventDate.After(toDate) {
			continue
		}

		evt := cal.AddEvent(req.RequestID)
		evt.SetCreatedTime(now)
		evt.SetDtStampTime(now)
		evt.SetStartAt(combineDateTime(req.EventDate, req.TimeFrom, loc))
		evt.SetEndAt(combineDateTime(req.EventDate, req.TimeTo, loc))
		evt.SetSummary(req.EventTitle)
		evt.SetLocation(req.Location)
		evt.SetDescription(req.Description)
	}

	for i := range adminEvents {
		ae := &adminEvents[i]

		evt := cal.AddEvent(ae.EventID)
		evt.SetCreatedTime(now)
		evt.SetDtStampTime(now)
		timeFrom, timeTo := ae.TimeFrom, ae.TimeTo
		if timeFrom == "" || timeTo == "" {
			timeFrom, timeTo = "08:00", "18:00"
		}
		evt.SetStartAt(combineDateTime(ae.EventDate, timeFrom, loc))
		evt.SetEndAt(combineDateTime(ae.EventDate, timeTo, loc))
		evt.SetSummary(ae.Title)
		if ae.Description != "" {
			evt.SetDescription(ae.Description)
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("活动日历_%s_%s.ics", from, to)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// combineDateTime 把 date 列与 "HH:MM" 时间列合成带时区的时刻
func combineDateTime(date time.Time, hhmm string, loc *time.Location) time.Time {
	t, err := time.Parse("15:04", normalizeTime(hhmm))
	if err != nil {
		t = time.Time{}
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}
