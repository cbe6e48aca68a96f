package service

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"schedule-maker/config"
)

type mapSource struct {
	name   string
	values map[string]string
}

func (m mapSource) Name() string { return m.name }
func (m mapSource) Lookup(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok && v != ""
}

func TestResolveCredentials_Order(t *testing.T) {
	first := mapSource{name: "a", values: map[string]string{"EMAIL_SENDER": "first@example.com"}}
	second := mapSource{name: "b", values: map[string]string{
		"EMAIL_SENDER":   "second@example.com",
		"EMAIL_PASSWORD": "app-password",
	}}

	creds := ResolveCredentials([]CredentialSource{first, second}, "EMAIL_SENDER", "EMAIL_PASSWORD")
	if creds.Address != "first@example.com" {
		t.Errorf("地址应取第一个源，实际 %s", creds.Address)
	}
	if creds.Password != "app-password" {
		t.Errorf("第一个源缺少密码时应继续查找，实际 %q", creds.Password)
	}
	if !creds.Complete() {
		t.Error("凭据应完整")
	}
}

func TestResolveCredentials_Missing(t *testing.T) {
	creds := ResolveCredentials([]CredentialSource{mapSource{name: "a"}}, "EMAIL_SENDER", "EMAIL_PASSWORD")
	if creds.Complete() {
		t.Error("无凭据时不应完整")
	}
}

func TestNewCredentialSources_EnvThenSecrets(t *testing.T) {
	dir := t.TempDir()
	secrets := filepath.Join(dir, "secrets.env")
	content := "SM_TEST_SENDER=file@example.com\nSM_TEST_PASSWORD=file-pass\n"
	if err := os.WriteFile(secrets, []byte(content), 0o600); err != nil {
		t.Fatalf("写入密钥文件失败: %v", err)
	}
	t.Setenv("SM_TEST_SENDER", "env@example.com")

	cfg := &config.MailConfig{
		CredentialSources: []string{config.CredentialSourceEnv, config.CredentialSourceSecrets},
		SecretsFile:       secrets,
	}
	sources := NewCredentialSources(cfg, zap.NewNop())
	if len(sources) != 2 || sources[0].Name() != "env" || sources[1].Name() != "secrets" {
		t.Fatalf("凭据源顺序错误")
	}

	creds := ResolveCredentials(sources, "SM_TEST_SENDER", "SM_TEST_PASSWORD")
	if creds.Address != "env@example.com" {
		t.Errorf("环境变量应优先，实际 %s", creds.Address)
	}
	if creds.Password != "file-pass" {
		t.Errorf("密码应来自密钥文件，实际 %q", creds.Password)
	}

	cfg.CredentialSources = []string{config.CredentialSourceSecrets, config.CredentialSourceEnv}
	creds = ResolveCredentials(NewCredentialSources(cfg, zap.NewNop()), "SM_TEST_SENDER", "SM_TEST_PASSWORD")
	if creds.Address != "file@example.com" {
		t.Errorf("密钥文件优先时地址应来自文件，实际 %s", creds.Address)
	}
}

func TestSecretsFileSource_MissingFile(t *testing.T) {
	src := &secretsFileSource{path: filepath.Join(t.TempDir(), "none.env"), logger: zap.NewNop()}
	if _, ok := src.Lookup("EMAIL_SENDER"); ok {
		t.Error("文件不存在时应视为未找到")
	}
}
