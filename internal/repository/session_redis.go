package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pkgerrors "schedule-maker/pkg/errors"
	"schedule-maker/pkg/redis"

	"schedule-maker/internal/model"
)

const sessionKeyPrefix = "session:"

// redisSessionStore Redis 会话存储
// 键的 TTL 与会话过期时间一致；Update 使用 WATCH/MULTI 乐观锁
type redisSessionStore struct {
	rdb *goredis.Client
}

// NewRedisSessionStore 创建 Redis 会话存储
func NewRedisSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{rdb: client.Raw()}
}

func sessionKey(id string) string { return sessionKeyPrefix + id }

func (r *redisSessionStore) Create(ctx context.Context, s *model.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("会话 %s 已过期", s.ID)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("序列化会话失败: %w", err)
	}
	return r.rdb.Set(ctx, sessionKey(s.ID), data, ttl).Err()
}

func (r *redisSessionStore) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := r.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, pkgerrors.ErrSessionNotFound
		}
		return nil, err
	}
	return decodeSession(data)
}

func (r *redisSessionStore) Update(ctx context.Context, id string, fn func(s *model.Session) error) (*model.Session, error) {
	key := sessionKey(id)
	var updated *model.Session

	err := r.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				return pkgerrors.ErrSessionNotFound
			}
			return err
		}
		s, err := decodeSession(data)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
		next, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("序列化会话失败: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, next, goredis.KeepTTL)
			return nil
		})
		if err != nil {
			return err
		}
		updated = s
		return nil
	}, key)

	if errors.Is(err, goredis.TxFailedErr) {
		return nil, pkgerrors.ErrConcurrentUpdate
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *redisSessionStore) Delete(ctx context.Context, id string) error {
	n, err := r.rdb.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return pkgerrors.ErrSessionNotFound
	}
	return nil
}

func decodeSession(data []byte) (*model.Session, error) {
	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("反序列化会话失败: %w", err)
	}
	if s.Done == nil {
		s.Done = map[string]bool{}
	}
	if s.Selected == nil {
		s.Selected = []string{}
	}
	if s.Personal == nil {
		s.Personal = []model.PersonalEntry{}
	}
	return &s, nil
}
