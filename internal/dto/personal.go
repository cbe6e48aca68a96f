package dto

// ── 个人安排 ──

// CreatePersonalEntryRequest 添加个人安排
// Text 格式："星期, 时间, 内容"（内容中可再含逗号）
type CreatePersonalEntryRequest struct {
	Week int    `json:"week" binding:"required,min=1"`
	Text string `json:"text" binding:"required,max=500"`
}

// PersonalEntryResponse 个人安排
type PersonalEntryResponse struct {
	ID        string `json:"id"`
	Week      int    `json:"week"`
	Day       string `json:"day"`
	Time      string `json:"time"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}
