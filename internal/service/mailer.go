package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"schedule-maker/internal/model"
)

// ── 提醒邮件 ────────────────────────────────────────────────
//
// 状态流转（无重试）：
//
//	IDLE ─凭据缺失─▶ FAILED_NO_CREDENTIALS
//	IDLE ─▶ CONNECTING ─▶ AUTHENTICATING ─▶ SENDING ─▶ SENT
//	任一步骤失败 ─▶ FAILED_WITH_REASON
//
// 凭据缺失时不会触碰 MailTransport。
// ─────────────────────────────────────────────────────────────

// MailMessage 待发送的邮件
type MailMessage struct {
	From     string
	To       string
	Subject  string
	HTMLBody string
}

// MailTransport 邮件投递
// track 用于上报 AUTHENTICATING / SENDING 等中间状态
type MailTransport interface {
	Deliver(ctx context.Context, creds Credentials, msg *MailMessage, track func(state string)) error
}

// MailResult 一次发送的结果
type MailResult struct {
	Success bool
	Message string
	State   string
}

// Mailer 提醒邮件发送器
type Mailer struct {
	sources     []CredentialSource
	addressKey  string
	passwordKey string
	transport   MailTransport
	logger      *zap.Logger
}

// NewMailer 创建 Mailer
func NewMailer(sources []CredentialSource, addressKey, passwordKey string, transport MailTransport, logger *zap.Logger) *Mailer {
	return &Mailer{
		sources:     sources,
		addressKey:  addressKey,
		passwordKey: passwordKey,
		transport:   transport,
		logger:      logger,
	}
}

// SendReminder 发送未完成事项与个人安排的提醒邮件，返回 (是否成功, 提示信息)
func (m *Mailer) SendReminder(ctx context.Context, recipient, subject string, unfinished []model.WeeklyViewRow, personal []model.PersonalEntry) (bool, string) {
	res := m.Send(ctx, recipient, subject, unfinished, personal)
	return res.Success, res.Message
}

// Send 与 SendReminder 相同，额外返回最终状态
func (m *Mailer) Send(ctx context.Context, recipient, subject string, unfinished []model.WeeklyViewRow, personal []model.PersonalEntry) MailResult {
	state := model.MailStateIdle
	track := func(next string) {
		m.logger.Debug("提醒邮件状态变更", zap.String("from", state), zap.String("to", next))
		state = next
	}

	creds := ResolveCredentials(m.sources, m.addressKey, m.passwordKey)
	if !creds.Complete() {
		track(model.MailStateFailedNoCredentials)
		m.logger.Warn("未配置发件凭据", zap.String("address_key", m.addressKey), zap.String("password_key", m.passwordKey))
		return MailResult{Message: "未配置发件邮箱或应用密码", State: state}
	}

	msg := &MailMessage{
		From:     creds.Address,
		To:       recipient,
		Subject:  subject,
		HTMLBody: RenderReminderHTML(unfinished, personal),
	}

	track(model.MailStateConnecting)
	if err := m.transport.Deliver(ctx, creds, msg, track); err != nil {
		failedAt := state
		track(model.MailStateFailedWithReason)
		m.logger.Error("提醒邮件发送失败",
			zap.String("stage", failedAt),
			zap.String("recipient", recipient),
			zap.Error(err),
		)
		return MailResult{Message: fmt.Sprintf("发送邮件失败: %v", err), State: state}
	}
	track(model.MailStateSent)

	m.logger.Info("提醒邮件已发送", zap.String("recipient", recipient))
	return MailResult{Success: true, Message: fmt.Sprintf("已发送提醒邮件至 %s", recipient), State: state}
}

// ── 邮件正文 ──

var mailMarkdown = goldmark.New(goldmark.WithExtensions(extension.Table))

const (
	emptyUnfinishedText = "Không còn việc nào chưa hoàn thành. 🎉"
	emptyPersonalText   = "Chưa có kế hoạch cá nhân."
)

// RenderReminderHTML 生成邮件 HTML：未完成课程表 + 个人安排表
func RenderReminderHTML(unfinished []model.WeeklyViewRow, personal []model.PersonalEntry) string {
	var md strings.Builder
	md.WriteString("Chào bạn, đây là danh sách nhắc nhở của bạn.\n\n")

	md.WriteString("## Việc chưa hoàn thành\n\n")
	if len(unfinished) == 0 {
		md.WriteString(emptyUnfinishedText + "\n\n")
	} else {
		header := []string{model.ColumnWeekday, model.ColumnTimeSlot, model.ColumnCourseName, model.ColumnRoom, model.ColumnSectionCode, model.ColumnNote}
		rows := make([][]string, 0, len(unfinished))
		for _, r := range unfinished {
			rows = append(rows, []string{r.Weekday, r.TimeSlot, r.CourseName, r.Room, r.SectionCode, r.Note})
		}
		writeMarkdownTable(&md, header, rows)
	}

	md.WriteString("## Lịch cá nhân\n\n")
	if len(personal) == 0 {
		md.WriteString(emptyPersonalText + "\n\n")
	} else {
		rows := make([][]string, 0, len(personal))
		for _, p := range personal {
			rows = append(rows, []string{p.Day, p.Time, p.Content})
		}
		writeMarkdownTable(&md, PersonalSheetColumns, rows)
	}

	var buf bytes.Buffer
	if err := mailMarkdown.Convert([]byte(md.String()), &buf); err != nil {
		// 转换失败时退回纯文本
		return "<pre>" + escapeHTML(md.String()) + "</pre>"
	}
	return buf.String()
}

func writeMarkdownTable(md *strings.Builder, header []string, rows [][]string) {
	md.WriteString("|")
	for _, h := range header {
		md.WriteString(" " + escapeMarkdownCell(h) + " |")
	}
	md.WriteString("\n|")
	for range header {
		md.WriteString(" --- |")
	}
	md.WriteString("\n")
	for _, row := range rows {
		md.WriteString("|")
		for _, v := range row {
			md.WriteString(" " + escapeMarkdownCell(v) + " |")
		}
		md.WriteString("\n")
	}
	md.WriteString("\n")
}

var markdownCellEscaper = strings.NewReplacer(
	`\`, `\\`, "|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`",
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "&", `\&`, "~", `\~`,
	"\r\n", " ", "\n", " ", "\r", " ",
)

func escapeMarkdownCell(s string) string {
	return markdownCellEscaper.Replace(strings.TrimSpace(s))
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
