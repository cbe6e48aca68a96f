package model

// ── 全校课表（上传的 xlsx）──

// 课表列名：与学校导出的 Excel 模板约定一致，不可在此层修改
const (
	ColumnWeek        = "Tuần"
	ColumnWeekday     = "Thứ"
	ColumnTimeSlot    = "Thời_gian"
	ColumnCourseName  = "Tên_HP"
	ColumnRoom        = "Phòng"
	ColumnSectionCode = "Mã_lớp"
	ColumnNote        = "Ghi_chú"
)

// RequiredColumns 上传文件必须包含的列
var RequiredColumns = []string{
	ColumnWeek,
	ColumnWeekday,
	ColumnTimeSlot,
	ColumnCourseName,
	ColumnRoom,
	ColumnSectionCode,
}

// TimetableRow 课表中的一行：某个教学班的一种上课安排（非具体日期）
type TimetableRow struct {
	Index       int    `json:"index"` // 数据行序号（从 0 开始，不含表头）
	Week        string `json:"week"`  // 周次串，如 "2-9,11-19"
	Weekday     string `json:"weekday"`
	TimeSlot    string `json:"time_slot"`
	CourseName  string `json:"course_name"`
	Room        string `json:"room"`
	SectionCode string `json:"section_code"`
	Note        string `json:"note"`
	Label       string `json:"label"` // "课程名 (班号)"
}

// SectionLabel 生成教学班标签
func SectionLabel(courseName, sectionCode string) string {
	return courseName + " (" + sectionCode + ")"
}

// Value 按列名取值，供导出时按调用方指定的列输出
func (r *TimetableRow) Value(column string) (string, bool) {
	switch column {
	case ColumnWeek:
		return r.Week, true
	case ColumnWeekday:
		return r.Weekday, true
	case ColumnTimeSlot:
		return r.TimeSlot, true
	case ColumnCourseName:
		return r.CourseName, true
	case ColumnRoom:
		return r.Room, true
	case ColumnSectionCode:
		return r.SectionCode, true
	case ColumnNote:
		return r.Note, true
	}
	return "", false
}

// Timetable 一次上传解析出的课表
type Timetable struct {
	Digest    string         `json:"digest"` // 文件内容 sha256，用于缓存
	SheetName string         `json:"sheet_name"`
	Rows      []TimetableRow `json:"rows"`
}

// Sections 按首次出现顺序返回去重后的教学班标签
func (t *Timetable) Sections() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool, len(t.Rows))
	labels := make([]string, 0)
	for _, r := range t.Rows {
		if seen[r.Label] {
			continue
		}
		seen[r.Label] = true
		labels = append(labels, r.Label)
	}
	return labels
}

// HasSection 判断标签是否存在于课表中
func (t *Timetable) HasSection(label string) bool {
	if t == nil {
		return false
	}
	for _, r := range t.Rows {
		if r.Label == label {
			return true
		}
	}
	return false
}

// WeeklyViewRow 周视图中的一行：课表行 + 勾选状态
type WeeklyViewRow struct {
	TimetableRow
	Key  string `json:"key"` // 勾选状态键，见 ChecklistKey
	Done bool   `json:"done"`
}
