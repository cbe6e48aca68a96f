package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"schedule-maker/config"
)

var (
	ErrTokenExpired = errors.New("会话令牌已过期")
	ErrTokenInvalid = errors.New("会话令牌无效")
)

const issuer = "schedule-maker"

// Claims 会话令牌声明
// 令牌只携带会话 ID，会话状态本身保存在会话存储中
type Claims struct {
	SessionID string `json:"sid"`
	jwtv5.RegisteredClaims
}

// Manager 会话令牌管理器
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager 创建会话令牌管理器
func NewManager(cfg *config.SessionConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
	}
}

// TTL 返回令牌有效期
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// GenerateSessionToken 为会话签发令牌，返回令牌与过期时间
func (m *Manager) GenerateSessionToken(sessionID string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.ttl)
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        sessionID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
			Issuer:    issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseToken 解析并验证令牌
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwtv5.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
