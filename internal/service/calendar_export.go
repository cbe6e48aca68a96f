package service

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"schedule-maker/config"
	"schedule-maker/internal/model"
)

// ── iCalendar 导出 ──────────────────────────────────────────
//
// 将某一周的课表视图与个人安排转为 .ics：
//   - 日期 = 学期开始日（第 1 周周一）+ 7×(周次-1) + (星期序号-1)
//   - 时间文本可解析为 "开始-结束" 时生成定时事件，否则生成全天事件
//   - 无法识别星期的行跳过，并计入 Skipped
// ─────────────────────────────────────────────────────────────

var ErrCalendarNotConfigured = errors.New("未配置学期开始日期，无法导出日历")

const (
	CalendarContentType  = "text/calendar; charset=utf-8"
	defaultEventDuration = 90 * time.Minute
)

// CalendarExport 导出结果
type CalendarExport struct {
	Content  string
	Filename string
	Events   int
	Skipped  int
}

// CalendarExporter iCalendar 导出器
type CalendarExporter struct {
	semesterStart time.Time
	configured    bool
	now           func() time.Time
}

// NewCalendarExporter 根据配置创建导出器
// semester_start 为空时导出器可创建，但 Export 返回 ErrCalendarNotConfigured
func NewCalendarExporter(cfg *config.CalendarConfig) (*CalendarExporter, error) {
	e := &CalendarExporter{now: time.Now}
	if cfg.SemesterStart == "" {
		return e, nil
	}
	loc := time.Local
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("加载时区 %q 失败: %w", cfg.Timezone, err)
		}
		loc = l
	}
	start, err := time.ParseInLocation("2006-01-02", cfg.SemesterStart, loc)
	if err != nil {
		return nil, fmt.Errorf("解析学期开始日期失败: %w", err)
	}
	e.semesterStart = start
	e.configured = true
	return e, nil
}

// Export 生成指定周的日历
func (e *CalendarExporter) Export(sessionID string, week int, rows []model.TimetableRow, personal []model.PersonalEntry) (*CalendarExport, error) {
	if !e.configured {
		return nil, ErrCalendarNotConfigured
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//schedule-maker//Lich Ca Nhan//VI")
	cal.SetXWRCalName(fmt.Sprintf("Lịch tuần %d", week))

	stamp := e.now().UTC()
	out := &CalendarExport{Filename: fmt.Sprintf("Lich_Ca_Nhan_Tuan_%d.ics", week)}

	for _, r := range rows {
		day, ok := e.dayOf(week, r.Weekday)
		if !ok {
			out.Skipped++
			continue
		}
		ev := cal.AddEvent(fmt.Sprintf("%s-w%d-r%d@schedule-maker", sessionID, week, r.Index))
		ev.SetDtStampTime(stamp)
		ev.SetSummary(r.Label)
		if r.Room != "" {
			ev.SetLocation(r.Room)
		}
		if r.Note != "" {
			ev.SetDescription(r.Note)
		}
		setEventTime(ev, day, r.TimeSlot)
		out.Events++
	}

	for _, p := range personal {
		day, ok := e.dayOf(week, p.Day)
		if !ok {
			out.Skipped++
			continue
		}
		ev := cal.AddEvent(fmt.Sprintf("%s-p%s@schedule-maker", sessionID, p.ID))
		ev.SetDtStampTime(stamp)
		ev.SetSummary(p.Content)
		setEventTime(ev, day, p.Time)
		out.Events++
	}

	out.Content = cal.Serialize()
	return out, nil
}

func (e *CalendarExporter) dayOf(week int, weekday string) (time.Time, bool) {
	ord, ok := WeekdayOrdinal(weekday)
	if !ok || week < 1 {
		return time.Time{}, false
	}
	return e.semesterStart.AddDate(0, 0, 7*(week-1)+ord-1), true
}

func setEventTime(ev *ics.VEvent, day time.Time, slot string) {
	start, end, ok := ParseTimeRange(slot)
	if !ok {
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		return
	}
	base := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	ev.SetStartAt(base.Add(start))
	ev.SetEndAt(base.Add(end))
}

// clockPattern 匹配 "7h", "07h30", "7:05", "7g30", "8pm"
// 纯数字（如节次 "1-3"）不视为时刻
var clockPattern = regexp.MustCompile(`(?i)^(\d{1,2})\s*(?:([:hg])\s*(\d{2})?)?\s*(am|pm)?$`)

// ParseTimeRange 解析时间文本，返回距当天 0 点的开始/结束偏移
// 只有开始时间时结束时间取开始后 90 分钟
func ParseTimeRange(text string) (time.Duration, time.Duration, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, 0, false
	}
	parts := strings.Split(text, "-")
	if len(parts) > 2 {
		return 0, 0, false
	}
	start, ok := parseClock(parts[0])
	if !ok {
		return 0, 0, false
	}
	end := start + defaultEventDuration
	if len(parts) == 2 {
		end, ok = parseClock(parts[1])
		if !ok || end <= start {
			return 0, 0, false
		}
	}
	return start, end, true
}

func parseClock(s string) (time.Duration, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	if m[2] == "" && m[4] == "" {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	min := 0
	if m[3] != "" {
		min, _ = strconv.Atoi(m[3])
	}
	switch strings.ToLower(m[4]) {
	case "pm":
		if h < 12 {
			h += 12
		}
	case "am":
		if h == 12 {
			h = 0
		}
	}
	if h > 23 || min > 59 {
		return 0, false
	}
	return time.Duration(h)*time.Hour + time.Duration(min)*time.Minute, true
}
