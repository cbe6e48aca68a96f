package dto

// ── 会话 ──

// SessionTokenResponse 创建会话响应
type SessionTokenResponse struct {
	SessionID   string `json:"session_id"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"` // 秒
	ExpiresAt   string `json:"expires_at"`
}

// SessionSummaryResponse 当前会话概况
type SessionSummaryResponse struct {
	SessionID     string   `json:"session_id"`
	CreatedAt     string   `json:"created_at"`
	ExpiresAt     string   `json:"expires_at"`
	HasTimetable  bool     `json:"has_timetable"`
	SectionCount  int      `json:"section_count"`
	Selected      []string `json:"selected"`
	PersonalCount int      `json:"personal_count"`
	DoneCount     int      `json:"done_count"`
}
