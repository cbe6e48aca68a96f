package dto

// ── 提醒邮件 ──

// SendReminderRequest 发送本周提醒
// Recipient 的格式在 Service 层用 validator 的 email 规则校验
type SendReminderRequest struct {
	Week      int    `json:"week"      binding:"required,min=1"`
	Recipient string `json:"recipient" binding:"required,max=254"`
	Subject   string `json:"subject"   binding:"omitempty,max=255"`
}

// SendReminderResponse 发送结果
type SendReminderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	State   string `json:"state"`
}

// ReminderLogResponse 发送记录
type ReminderLogResponse struct {
	ID        string `json:"id"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Week      int    `json:"week"`
	State     string `json:"state"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}
