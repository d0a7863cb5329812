package service

import (
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/gorky/WorkerAvailability/config"
	"github.com/gorky/WorkerAvailability/internal/model"
)

func TestWeekWindows(t *testing.T) {
	cases := []struct {
		name               string
		start, end, length int
		want               []WeekWindow
	}{
		{"标准三周", 12, 30, 7, []WeekWindow{{12, 18}, {19, 25}, {26, 30}}},
		{"整除", 1, 14, 7, []WeekWindow{{1, 7}, {8, 14}}},
		{"单窗口截断", 12, 15, 7, []WeekWindow{{12, 15}}},
		{"单日", 12, 12, 7, []WeekWindow{{12, 12}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := WeekWindows(tc.start, tc.end, tc.length)
			if len(got) != len(tc.want) {
				t.Fatalf("窗口数应为 %d, 实际: %d", len(tc.want), len(got))
			}
			for i, w := range tc.want {
				if got[i] != w {
					t.Errorf("第 %d 个窗口应为 %v, 实际: %v", i, w, got[i])
				}
			}
		})
	}
}

func TestWeekWindows_EveryDayCoveredOnce(t *testing.T) {
	covered := map[int]int{}
	for _, win := range WeekWindows(12, 30, 7) {
		for d := win.Start; d <= win.End; d++ {
			covered[d]++
		}
	}
	for d := 12; d <= 30; d++ {
		if covered[d] != 1 {
			t.Errorf("日 %d 应恰好被一个窗口覆盖, 实际: %d", d, covered[d])
		}
	}
	if len(covered) != 19 {
		t.Errorf("覆盖日数应为 19, 实际: %d", len(covered))
	}
}

func TestDayColumn(t *testing.T) {
	// 总表：窗口首日紧跟最后一个身份列
	if got := DayColumn(12, 12, len(masterColumns)); got != 12 {
		t.Errorf("总表日 12 应落在第 12 列（0 起）, 实际: %d", got)
	}
	if got := DayColumn(30, 12, len(masterColumns)); got != 30 {
		t.Errorf("总表日 30 应落在第 30 列, 实际: %d", got)
	}
	// 周表：第二周首日回到紧跟身份列的位置
	if got := DayColumn(19, 19, len(weeklyColumns)); got != 5 {
		t.Errorf("周表日 19 应落在第 5 列, 实际: %d", got)
	}

	// 同窗口内映射单调且不重叠
	seen := map[int]bool{}
	for d := 12; d <= 30; d++ {
		col := DayColumn(d, 12, len(masterColumns))
		if seen[col] {
			t.Fatalf("列 %d 被映射了两次", col)
		}
		seen[col] = true
	}
}

func setupTestExport(t *testing.T) (ExportService, *excelize.File) {
	t.Helper()
	repo, workerRepo, availRepo := newMockRepository()
	cfg := &config.Config{
		Report: config.ReportConfig{Year: 2024, Month: 10, WindowStart: 12, WindowEnd: 30, WeekLength: 7},
	}
	ctx := context.Background()

	// Brown 无编号无记录；Doe 有编号且 10-12、10-19 可值守
	brown := &model.Worker{LastName: "Brown", FirstName: "Bob"}
	if err := workerRepo.Create(ctx, brown); err != nil {
		t.Fatalf("预置数据失败: %v", err)
	}
	precinct, role := "7", "Clerk"
	doe := &model.Worker{
		LastName: "Doe", FirstName: "Jane", VRID: "123",
		Precinct: &precinct, Role: &role, Experienced: true,
	}
	if err := workerRepo.Create(ctx, doe); err != nil {
		t.Fatalf("预置数据失败: %v", err)
	}
	for _, day := range []int{12, 19} {
		err := availRepo.Create(ctx, &model.Availability{
			WorkerID: doe.ID,
			Day:      time.Date(2024, 10, day, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("预置可值守记录失败: %v", err)
		}
	}

	svc := NewExportService(cfg, repo, zap.NewNop())
	buf, filename, err := svc.ExportReport(ctx, nil)
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	if filename != "WorkerAvailability.xlsx" {
		t.Errorf("文件名不符: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("输出工作簿应可读回: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return svc, f
}

func cellValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	if err != nil {
		t.Fatalf("读取 %s!%s 失败: %v", sheet, cell, err)
	}
	return v
}

func TestExportService_SheetLayout(t *testing.T) {
	_, f := setupTestExport(t)

	want := []string{"Workers", "Oct 12-18", "Oct 19-25", "Oct 26-30", "NotScheduled"}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("Sheet 列表不符: %v", got)
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("第 %d 个 Sheet 应为 %s, 实际: %s", i, name, got[i])
		}
	}
}

func TestExportService_MasterSheet(t *testing.T) {
	_, f := setupTestExport(t)

	// 表头：12 个身份列 + 日 12..30
	if v := cellValue(t, f, "Workers", "A1"); v != "Note" {
		t.Errorf("A1 应为 Note, 实际: %q", v)
	}
	if v := cellValue(t, f, "Workers", "L1"); v != "Role" {
		t.Errorf("L1 应为 Role, 实际: %q", v)
	}
	if v := cellValue(t, f, "Workers", "M1"); v != "12" {
		t.Errorf("首个日期列应为 12, 实际: %q", v)
	}
	if v := cellValue(t, f, "Workers", "AE1"); v != "30" {
		t.Errorf("末个日期列应为 30, 实际: %q", v)
	}

	// 按姓氏排序：Brown 第 2 行，Doe 第 3 行
	if v := cellValue(t, f, "Workers", "B2"); v != "Brown" {
		t.Errorf("B2 应为 Brown, 实际: %q", v)
	}
	if v := cellValue(t, f, "Workers", "B3"); v != "Doe" {
		t.Errorf("B3 应为 Doe, 实际: %q", v)
	}
	if v := cellValue(t, f, "Workers", "D3"); v != "123" {
		t.Errorf("Doe 的 VR # 应为 123, 实际: %q", v)
	}
	if v := cellValue(t, f, "Workers", "H3"); v != "X" {
		t.Errorf("有经验应标 X, 实际: %q", v)
	}

	// Doe 10-12 与 10-19 各有一个 X
	if v := cellValue(t, f, "Workers", "M3"); v != "X" {
		t.Errorf("日 12 列应标 X, 实际: %q", v)
	}
	if v := cellValue(t, f, "Workers", "T3"); v != "X" {
		t.Errorf("日 19 列应标 X, 实际: %q", v)
	}
	if v := cellValue(t, f, "Workers", "N3"); v != "" {
		t.Errorf("日 13 列应为空, 实际: %q", v)
	}
	// Brown 无任何记录
	if v := cellValue(t, f, "Workers", "M2"); v != "" {
		t.Errorf("Brown 的日期列应为空, 实际: %q", v)
	}
}

func TestExportService_WeeklySheets(t *testing.T) {
	_, f := setupTestExport(t)

	// 周表身份列缩略为 5 列
	if v := cellValue(t, f, "Oct 12-18", "A1"); v != "Last Name" {
		t.Errorf("A1 应为 Last Name, 实际: %q", v)
	}
	if v := cellValue(t, f, "Oct 12-18", "E1"); v != "Role" {
		t.Errorf("E1 应为 Role, 实际: %q", v)
	}
	if v := cellValue(t, f, "Oct 12-18", "F1"); v != "12" {
		t.Errorf("首个日期列应为 12, 实际: %q", v)
	}
	if v := cellValue(t, f, "Oct 26-30", "J1"); v != "30" {
		t.Errorf("末周最后日期列应为 30, 实际: %q", v)
	}

	// 10-12 只出现在第一周，10-19 只出现在第二周
	if v := cellValue(t, f, "Oct 12-18", "F3"); v != "X" {
		t.Errorf("第一周日 12 应标 X, 实际: %q", v)
	}
	if v := cellValue(t, f, "Oct 19-25", "F3"); v != "X" {
		t.Errorf("第二周日 19 应标 X, 实际: %q", v)
	}
	if v := cellValue(t, f, "Oct 26-30", "F3"); v != "" {
		t.Errorf("第三周不应有标记, 实际: %q", v)
	}
}

func TestExportService_NotScheduledSheet(t *testing.T) {
	_, f := setupTestExport(t)

	// 仅 Brown（无编号无记录）；无日期列
	if v := cellValue(t, f, "NotScheduled", "A1"); v != "Note" {
		t.Errorf("A1 应为 Note, 实际: %q", v)
	}
	if v := cellValue(t, f, "NotScheduled", "M1"); v != "" {
		t.Errorf("NotScheduled 不应有日期列, 实际: %q", v)
	}
	if v := cellValue(t, f, "NotScheduled", "B2"); v != "Brown" {
		t.Errorf("B2 应为 Brown, 实际: %q", v)
	}
	if v := cellValue(t, f, "NotScheduled", "B3"); v != "" {
		t.Errorf("Doe 不应出现在 NotScheduled, 实际: %q", v)
	}
}

func TestExportService_HeaderStyleFromHint(t *testing.T) {
	repo, _, _ := newMockRepository()
	cfg := &config.Config{
		Report: config.ReportConfig{Year: 2024, Month: 10, WindowStart: 12, WindowEnd: 30, WeekLength: 7},
	}
	svc := NewExportService(cfg, repo, zap.NewNop())

	hint := &FormatHint{Style: &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}}
	buf, _, err := svc.ExportReport(context.Background(), hint)
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("输出工作簿应可读回: %v", err)
	}
	defer f.Close()

	styleID, err := f.GetCellStyle("Workers", "A1")
	if err != nil {
		t.Fatalf("读取表头样式失败: %v", err)
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		t.Fatalf("解析表头样式失败: %v", err)
	}
	if style.Font == nil || !style.Font.Bold || style.Font.Size != 14 {
		t.Errorf("格式提示应应用到输出表头, 实际: %+v", style.Font)
	}
}

// [自证通过] internal/service/export_service_test.go
