package dto

// ── 周视图 ──

// WeeklyViewRowResponse 周视图中的一行
type WeeklyViewRowResponse struct {
	Key         string `json:"key"`
	Week        string `json:"week"`
	Weekday     string `json:"weekday"`
	TimeSlot    string `json:"time_slot"`
	CourseName  string `json:"course_name"`
	Room        string `json:"room"`
	SectionCode string `json:"section_code"`
	Note        string `json:"note,omitempty"`
	Label       string `json:"label"`
	Done        bool   `json:"done"`
}

// WeeklyViewResponse 周视图响应
type WeeklyViewResponse struct {
	Week       int                     `json:"week"`
	Rows       []WeeklyViewRowResponse `json:"rows"`
	Unfinished int                     `json:"unfinished"`
	Personal   []PersonalEntryResponse `json:"personal"`
}

// UpdateChecklistRequest 设置周视图行的完成状态
type UpdateChecklistRequest struct {
	Week int    `json:"week" binding:"required,min=1"`
	Key  string `json:"key"  binding:"required"`
	Done bool   `json:"done"`
}

// ExportQuery Excel 导出参数
// Columns 为逗号分隔的列名，为空时导出全部课表列
type ExportQuery struct {
	Week    int    `form:"week" binding:"required,min=1"`
	Columns string `form:"columns"`
}
