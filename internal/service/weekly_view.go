package service

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"schedule-maker/config"
	"schedule-maker/internal/model"
)

// ── 周视图构建 ──────────────────────────────────────────────
//
// 输入：全校课表 + 已选教学班 + 目标周次
// 输出：属于已选教学班且本周有课的行，按 (星期, 时间) 升序排列
//
// 排序方式：
//   - lexical（默认）：按文本逐字节比较，"Thứ 10" 会排在 "Thứ 2" 之前，
//     与最初的表格工具行为一致
//   - calendar：按 weekdayOrdinals 映射为 1-7 后比较，未识别的星期排在最后
//
// 每次调用都完整重算，无副作用。
// ─────────────────────────────────────────────────────────────

// BuildWeeklyView 构建指定周的课表视图
func BuildWeeklyView(rows []model.TimetableRow, selected []string, week int, dayOrder string) []model.TimetableRow {
	if len(selected) == 0 {
		return []model.TimetableRow{}
	}
	selectedSet := make(map[string]bool, len(selected))
	for _, label := range selected {
		selectedSet[label] = true
	}

	out := make([]model.TimetableRow, 0)
	for _, r := range rows {
		if !selectedSet[r.Label] {
			continue
		}
		if !OccursInWeek(r.Week, week) {
			continue
		}
		out = append(out, r)
	}

	less := lexicalLess
	if dayOrder == config.DayOrderCalendar {
		less = calendarLess
	}
	sort.SliceStable(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	return out
}

func lexicalLess(a, b *model.TimetableRow) bool {
	if a.Weekday != b.Weekday {
		return a.Weekday < b.Weekday
	}
	return a.TimeSlot < b.TimeSlot
}

func calendarLess(a, b *model.TimetableRow) bool {
	oa, okA := WeekdayOrdinal(a.Weekday)
	ob, okB := WeekdayOrdinal(b.Weekday)
	switch {
	case okA && okB && oa != ob:
		return oa < ob
	case okA != okB:
		return okA
	case !okA && a.Weekday != b.Weekday:
		return a.Weekday < b.Weekday
	}
	return a.TimeSlot < b.TimeSlot
}

// weekdayOrdinals 星期文本 → 序号（周一=1 … 周日=7）
// 键为小写、NFC 规范化、去除首尾空白后的文本
var weekdayOrdinals = map[string]int{
	"thứ 2": 1, "thứ hai": 1, "t2": 1, "2": 1, "mon": 1, "monday": 1,
	"thứ 3": 2, "thứ ba": 2, "t3": 2, "3": 2, "tue": 2, "tuesday": 2,
	"thứ 4": 3, "thứ tư": 3, "t4": 3, "4": 3, "wed": 3, "wednesday": 3,
	"thứ 5": 4, "thứ năm": 4, "t5": 4, "5": 4, "thu": 4, "thursday": 4,
	"thứ 6": 5, "thứ sáu": 5, "t6": 5, "6": 5, "fri": 5, "friday": 5,
	"thứ 7": 6, "thứ bảy": 6, "t7": 6, "7": 6, "sat": 6, "saturday": 6,
	"chủ nhật": 7, "cn": 7, "8": 7, "sun": 7, "sunday": 7,
}

// WeekdayOrdinal 将星期文本映射为 1-7，无法识别时返回 false
func WeekdayOrdinal(label string) (int, bool) {
	key := strings.ToLower(strings.TrimSpace(norm.NFC.String(label)))
	key = strings.Join(strings.Fields(key), " ")
	n, ok := weekdayOrdinals[key]
	return n, ok
}

// WeeklyViewRows 为周视图行附加勾选状态
func WeeklyViewRows(rows []model.TimetableRow, week int, done map[string]bool) []model.WeeklyViewRow {
	out := make([]model.WeeklyViewRow, 0, len(rows))
	for _, r := range rows {
		key := model.ChecklistKey(week, r.Index)
		out = append(out, model.WeeklyViewRow{
			TimetableRow: r,
			Key:          key,
			Done:         done[key],
		})
	}
	return out
}

// Unfinished 过滤出未勾选完成的行
func Unfinished(rows []model.WeeklyViewRow) []model.WeeklyViewRow {
	out := make([]model.WeeklyViewRow, 0, len(rows))
	for _, r := range rows {
		if !r.Done {
			out = append(out, r)
		}
	}
	return out
}
