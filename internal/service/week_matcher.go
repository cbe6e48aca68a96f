package service

import (
	"strconv"
	"strings"
)

// ── 周次匹配 ────────────────────────────────────────────────
//
// 周次串由逗号分隔，每段为单个整数或闭区间 "起-止"，例如 "2,5-9,12"。
//
//   - 区间两端都包含；起 > 止（如 "5-3"）的区间永远不匹配，保持原样不做翻转
//   - 按顺序逐段检查：在遇到无法解析的段之前命中即返回 true，
//     遇到无法解析的段立即返回 false（整串视为"本周无课"）
//   - 空串、非数字一律返回 false，从不 panic
// ─────────────────────────────────────────────────────────────

// OccursInWeek 判断 week 是否落在周次串 expr 描述的范围内
func OccursInWeek(expr string, week int) bool {
	if strings.TrimSpace(expr) == "" {
		return false
	}
	for _, part := range strings.Split(expr, ",") {
		if strings.Contains(part, "-") {
			bounds := strings.Split(part, "-")
			if len(bounds) != 2 {
				return false
			}
			start, ok := parseWeekNumber(bounds[0])
			if !ok {
				return false
			}
			end, ok := parseWeekNumber(bounds[1])
			if !ok {
				return false
			}
			if start <= week && week <= end {
				return true
			}
			continue
		}
		n, ok := parseWeekNumber(part)
		if !ok {
			return false
		}
		if n == week {
			return true
		}
	}
	return false
}

// parseWeekNumber 解析单个周次数字，允许两侧空白
func parseWeekNumber(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}
