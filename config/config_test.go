package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080},
		Session: SessionConfig{Secret: "test-session-secret-2026", TTL: time.Hour},
		Mail: MailConfig{
			CredentialSources: []string{CredentialSourceEnv, CredentialSourceSecrets},
		},
		View: ViewConfig{DayOrder: DayOrderLexical, MaxWeek: 50},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("期望校验通过，实际: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"端口越界", func(c *Config) { c.Server.Port = 70000 }},
		{"密钥过短", func(c *Config) { c.Session.Secret = "short" }},
		{"TTL 为 0", func(c *Config) { c.Session.TTL = 0 }},
		{"凭据源为空", func(c *Config) { c.Mail.CredentialSources = nil }},
		{"未知凭据源", func(c *Config) { c.Mail.CredentialSources = []string{"vault"} }},
		{"未知排序方式", func(c *Config) { c.View.DayOrder = "weekday" }},
		{"最大周次非法", func(c *Config) { c.View.MaxWeek = 0 }},
		{"学期开始日期格式错误", func(c *Config) { c.Calendar.SemesterStart = "01/09/2025" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("期望校验失败")
			}
		})
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
session:
  secret: "file-secret-at-least-16"
view:
  day_order: calendar
mail:
  credential_sources: [secrets, env]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	t.Setenv("SCHED_SERVER_PORT", "9191")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("环境变量应覆盖配置文件，期望 9191，实际 %d", cfg.Server.Port)
	}
	if cfg.View.DayOrder != DayOrderCalendar {
		t.Errorf("期望 day_order=calendar，实际 %s", cfg.View.DayOrder)
	}
	if cfg.Mail.SMTPHost != "smtp.gmail.com" || cfg.Mail.SMTPPort != 587 {
		t.Errorf("SMTP 默认值错误: %s:%d", cfg.Mail.SMTPHost, cfg.Mail.SMTPPort)
	}
	if len(cfg.Mail.CredentialSources) != 2 || cfg.Mail.CredentialSources[0] != CredentialSourceSecrets {
		t.Errorf("凭据源顺序错误: %v", cfg.Mail.CredentialSources)
	}
	if cfg.Session.TTL != 12*time.Hour {
		t.Errorf("期望默认 session.ttl=12h，实际 %v", cfg.Session.TTL)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("缺少 session.secret 时应返回错误")
	}
}
