package service

import (
	"context"
	"fmt"
	"net"
	"time"

	mail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"schedule-maker/config"
	"schedule-maker/internal/model"
)

// smtpTransport 基于 go-mail 的 SMTP 投递
//
// 连接建立后按服务器能力升级 STARTTLS（opportunistic），随后 PLAIN 认证。
// TCP 连接成功时上报 AUTHENTICATING，认证完成后上报 SENDING。
type smtpTransport struct {
	host    string
	port    int
	timeout time.Duration
	logger  *zap.Logger
}

// NewSMTPTransport 创建 SMTP 投递实现
func NewSMTPTransport(cfg *config.MailConfig, logger *zap.Logger) MailTransport {
	return &smtpTransport{
		host:    cfg.SMTPHost,
		port:    cfg.SMTPPort,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

func (t *smtpTransport) Deliver(ctx context.Context, creds Credentials, msg *MailMessage, track func(state string)) error {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return fmt.Errorf("发件人地址无效: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("收件人地址无效: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)

	dialer := &net.Dialer{Timeout: t.timeout}
	opts := []mail.Option{
		mail.WithPort(t.port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(creds.Address),
		mail.WithPassword(creds.Password),
		mail.WithDialContextFunc(func(ctx context.Context, network, address string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, address)
			if err != nil {
				return nil, err
			}
			track(model.MailStateAuthenticating)
			return conn, nil
		}),
	}
	if t.timeout > 0 {
		opts = append(opts, mail.WithTimeout(t.timeout))
	}

	client, err := mail.NewClient(t.host, opts...)
	if err != nil {
		return fmt.Errorf("创建 SMTP 客户端失败: %w", err)
	}

	if err := client.DialWithContext(ctx); err != nil {
		return err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			t.logger.Debug("关闭 SMTP 连接失败", zap.Error(cerr))
		}
	}()

	track(model.MailStateSending)
	return client.Send(m)
}
