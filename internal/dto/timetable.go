package dto

// ── 课表上传 ──

// TimetableUploadResponse 上传课表响应
type TimetableUploadResponse struct {
	SheetName string   `json:"sheet_name"`
	RowCount  int      `json:"row_count"`
	Sections  []string `json:"sections"`
	Selected  []string `json:"selected"` // 上传后仍有效的已选教学班
	Dropped   []string `json:"dropped"`  // 新课表中已不存在而被移除的教学班
}

// SectionsResponse 教学班标签列表
type SectionsResponse struct {
	Sections []string `json:"sections"`
	Selected []string `json:"selected"`
}

// UpdateSelectionRequest 替换已选教学班
type UpdateSelectionRequest struct {
	Sections []string `json:"sections" binding:"omitempty,dive,required"`
}
