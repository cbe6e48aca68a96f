package model

import "time"

// 提醒邮件发送状态
const (
	MailStateIdle                = "idle"
	MailStateFailedNoCredentials = "failed_no_credentials"
	MailStateConnecting          = "connecting"
	MailStateAuthenticating      = "authenticating"
	MailStateSending             = "sending"
	MailStateSent                = "sent"
	MailStateFailedWithReason    = "failed_with_reason"
)

// ReminderLog 提醒邮件发送记录表，对应 reminder_logs
type ReminderLog struct {
	ReminderLogID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"reminder_log_id"`
	SessionID     string    `gorm:"type:uuid;not null;index"                       json:"session_id"`
	Recipient     string    `gorm:"type:varchar(254);not null"                     json:"recipient"`
	Subject       string    `gorm:"type:varchar(255);not null"                     json:"subject"`
	Week          int       `gorm:"type:smallint;not null"                         json:"week"`
	State         string    `gorm:"type:varchar(32);not null"                      json:"state"`
	Success       bool      `gorm:"not null;default:false"                         json:"success"`
	Message       string    `gorm:"type:text;not null;default:''"                  json:"message"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (ReminderLog) TableName() string { return "reminder_logs" }
