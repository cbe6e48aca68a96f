package service

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"schedule-maker/config"
)

// ── 发件凭据 ────────────────────────────────────────────────
//
// 凭据源按配置顺序依次查找，每个键取第一个非空值。
// 任何一个源中"找不到"都不是错误，继续查找下一个源。
// 默认顺序：env（进程环境变量）→ secrets（dotenv 格式的密钥文件）。
// ─────────────────────────────────────────────────────────────

// Credentials 发件人地址与应用密码
type Credentials struct {
	Address  string
	Password string
}

// Complete 两项都有值才可用于发信
func (c Credentials) Complete() bool {
	return c.Address != "" && c.Password != ""
}

// CredentialSource 具名的键值凭据源
type CredentialSource interface {
	Name() string
	Lookup(key string) (string, bool)
}

// ── env ──

type envSource struct{}

func (envSource) Name() string { return config.CredentialSourceEnv }

func (envSource) Lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// ── secrets ──

type secretsFileSource struct {
	path   string
	logger *zap.Logger
}

func (s *secretsFileSource) Name() string { return config.CredentialSourceSecrets }

// Lookup 每次查找都重新读取文件，修改密钥文件后无需重启
func (s *secretsFileSource) Lookup(key string) (string, bool) {
	if s.path == "" {
		return "", false
	}
	values, err := godotenv.Read(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("读取密钥文件失败", zap.String("path", s.path), zap.Error(err))
		}
		return "", false
	}
	v, ok := values[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// NewCredentialSources 按配置顺序构造凭据源
func NewCredentialSources(cfg *config.MailConfig, logger *zap.Logger) []CredentialSource {
	sources := make([]CredentialSource, 0, len(cfg.CredentialSources))
	for _, name := range cfg.CredentialSources {
		switch name {
		case config.CredentialSourceEnv:
			sources = append(sources, envSource{})
		case config.CredentialSourceSecrets:
			sources = append(sources, &secretsFileSource{path: cfg.SecretsFile, logger: logger})
		}
	}
	return sources
}

// ResolveCredentials 依次查找发件人地址与密码
func ResolveCredentials(sources []CredentialSource, addressKey, passwordKey string) Credentials {
	return Credentials{
		Address:  lookupFirst(sources, addressKey),
		Password: lookupFirst(sources, passwordKey),
	}
}

func lookupFirst(sources []CredentialSource, key string) string {
	for _, src := range sources {
		if v, ok := src.Lookup(key); ok {
			return v
		}
	}
	return ""
}
