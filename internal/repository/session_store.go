package repository

import (
	"context"

	"schedule-maker/internal/model"
)

// SessionStore 会话状态存储
//
// Update 以"读取 → 修改 → 写回"的方式串行化同一会话的修改；
// fn 返回错误时不写回，原样返回该错误。
type SessionStore interface {
	Create(ctx context.Context, s *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Update(ctx context.Context, id string, fn func(s *model.Session) error) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}
